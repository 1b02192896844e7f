package poll

import (
	"context"
	"errors"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Vote records userID's choice of optionID, replacing any earlier vote on
// the same poll in a single upsert.
func (s *Service) Vote(ctx context.Context, userID, optionID uint) (*models.PollVote, error) {
	var vote models.PollVote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		option, err := findOption(tx, optionID)
		if err != nil {
			return err
		}

		ballot := models.PollVote{
			UserID:       userID,
			PollID:       option.PollID,
			PollOptionID: option.ID,
			VoteTime:     s.now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "poll_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"poll_option_id", "vote_time"}),
		}).Create(&ballot).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ? AND poll_id = ?", userID, option.PollID).First(&vote).Error
	})
	if err != nil {
		return nil, s.internal(err, "Failed to vote", zap.Uint("user_id", userID), zap.Uint("poll_option_id", optionID))
	}

	s.logger.Debug("vote recorded", zap.Uint("user_id", userID), zap.Uint("poll_id", vote.PollID), zap.Uint("poll_option_id", vote.PollOptionID))
	return &vote, nil
}

// Unvote clears userID's vote on pollID. Missing votes are not an error.
func (s *Service) Unvote(ctx context.Context, userID, pollID uint) error {
	if err := s.db.WithContext(ctx).Where("user_id = ? AND poll_id = ?", userID, pollID).Delete(&models.PollVote{}).Error; err != nil {
		return s.internal(err, "Failed to unvote", zap.Uint("user_id", userID), zap.Uint("poll_id", pollID))
	}
	return nil
}

func (s *Service) GetUserVote(ctx context.Context, userID, pollID uint) (*models.PollVote, error) {
	var vote models.PollVote
	if err := s.db.WithContext(ctx).Where("user_id = ? AND poll_id = ?", userID, pollID).First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgVoteNotFound)
		}
		return nil, apperror.Internal("Failed to fetch poll vote", err)
	}
	return &vote, nil
}

func (s *Service) GetVotePoll(ctx context.Context, voteID uint) (*models.Poll, error) {
	db := s.db.WithContext(ctx)

	var vote models.PollVote
	if err := db.First(&vote, voteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgVoteNotFound)
		}
		return nil, apperror.Internal("Failed to fetch poll vote", err)
	}
	return findPoll(db, vote.PollID)
}

// GetPollResults counts votes per option, including options with none.
func (s *Service) GetPollResults(ctx context.Context, pollID uint) ([]OptionResult, error) {
	db := s.db.WithContext(ctx)
	if _, err := findPoll(db, pollID); err != nil {
		return nil, err
	}

	var results []OptionResult
	err := db.Model(&models.PollOption{}).
		Select("poll_options.id AS poll_option_id, COUNT(poll_votes.id) AS votes").
		Joins("LEFT JOIN poll_votes ON poll_votes.poll_option_id = poll_options.id").
		Where("poll_options.poll_id = ?", pollID).
		Group("poll_options.id").
		Order("poll_options.id").
		Scan(&results).Error
	if err != nil {
		return nil, apperror.Internal("Failed to fetch poll results", err)
	}
	return results, nil
}
