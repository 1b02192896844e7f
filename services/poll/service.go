package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MsgPollNotFound   = "Poll does not exist"
	MsgOptionNotFound = "Poll option does not exist"
	MsgVoteNotFound   = "Poll vote does not exist"
	MsgNotOwner       = "You do not have permission to edit this poll"
)

var MsgTooManyOptions = fmt.Sprintf("Poll already has the maximum of %d options", models.MaxOptionsPerPoll)

// OptionResult is the vote tally for one option of a poll.
type OptionResult struct {
	PollOptionID uint  `json:"poll_option_id"`
	Votes        int64 `json:"votes"`
}

type Service struct {
	db     *gorm.DB
	logger *logging.Service
	now    func() time.Time
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func validateTitle(title string) error {
	return checkLength("Title", title, models.TitleMinLength, models.TitleMaxLength)
}

func validateDescription(description string) error {
	return checkLength("Description", description, 0, models.DescriptionMaxLength)
}

func validateOptionValue(value string) error {
	return checkLength("Value", value, models.OptionMinLength, models.OptionMaxLength)
}

func (s *Service) CreatePoll(ctx context.Context, ownerID uint, title, description string) (*models.Poll, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	poll := models.Poll{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&poll).Error; err != nil {
		s.logger.Error("failed to create poll", zap.Error(err), zap.Uint("user_id", ownerID))
		return nil, apperror.Internal("Failed to create new poll", err)
	}

	s.logger.Info("poll created", zap.Uint("poll_id", poll.ID), zap.Uint("user_id", ownerID))
	return &poll, nil
}

func (s *Service) GetPoll(ctx context.Context, pollID uint) (*models.Poll, error) {
	return findPoll(s.db.WithContext(ctx), pollID)
}

func (s *Service) GetUserPolls(ctx context.Context, userID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&polls).Error
	if err != nil {
		return nil, apperror.Internal("Failed to fetch polls", err)
	}
	return polls, nil
}

func (s *Service) SetTitle(ctx context.Context, callerID, pollID uint, title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	return s.updatePoll(ctx, callerID, pollID, "title", title)
}

func (s *Service) SetDescription(ctx context.Context, callerID, pollID uint, description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	return s.updatePoll(ctx, callerID, pollID, "description", description)
}

func (s *Service) updatePoll(ctx context.Context, callerID, pollID uint, column string, value string) error {
	db := s.db.WithContext(ctx)
	if _, err := ownedPoll(db, callerID, pollID); err != nil {
		return err
	}

	if err := db.Model(&models.Poll{}).Where("id = ?", pollID).Update(column, value).Error; err != nil {
		s.logger.Error("failed to update poll", zap.Error(err), zap.Uint("poll_id", pollID), zap.String("column", column))
		return apperror.Internal("Failed to update poll", err)
	}
	return nil
}

// DeletePoll removes the poll with its options and votes.
func (s *Service) DeletePoll(ctx context.Context, callerID, pollID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedPoll(tx, callerID, pollID); err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Poll{}, pollID).Error
	})
	if err != nil {
		return s.internal(err, "Failed to delete poll", zap.Uint("poll_id", pollID))
	}

	s.logger.Info("poll deleted", zap.Uint("poll_id", pollID), zap.Uint("user_id", callerID))
	return nil
}

// internal passes application errors through and wraps anything else.
func (s *Service) internal(err error, message string, fields ...zap.Field) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error(message, append(fields, zap.Error(err))...)
	return apperror.Internal(message, err)
}

func findPoll(db *gorm.DB, pollID uint) (*models.Poll, error) {
	var poll models.Poll
	if err := db.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgPollNotFound)
		}
		return nil, apperror.Internal("Failed to fetch poll", err)
	}
	return &poll, nil
}

func ownedPoll(db *gorm.DB, callerID, pollID uint) (*models.Poll, error) {
	poll, err := findPoll(db, pollID)
	if err != nil {
		return nil, err
	}
	if poll.UserID != callerID {
		return nil, apperror.Auth(MsgNotOwner)
	}
	return poll, nil
}

func lockPoll(tx *gorm.DB, pollID uint) (*models.Poll, error) {
	return findPoll(tx.Clauses(clause.Locking{Strength: "UPDATE"}), pollID)
}
