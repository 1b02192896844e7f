package poll

import (
	"context"
	"errors"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOption adds an option to a poll the caller owns. The poll row is
// locked while counting so concurrent inserts cannot pass the cap together.
func (s *Service) CreateOption(ctx context.Context, callerID, pollID uint, value string) (*models.PollOption, error) {
	if err := validateOptionValue(value); err != nil {
		return nil, err
	}

	option := models.PollOption{PollID: pollID, Value: value}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poll, err := lockPoll(tx, pollID)
		if err != nil {
			return err
		}
		if poll.UserID != callerID {
			return apperror.Auth(MsgNotOwner)
		}

		var count int64
		if err := tx.Model(&models.PollOption{}).Where("poll_id = ?", pollID).Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxOptionsPerPoll {
			return apperror.Capacity(MsgTooManyOptions)
		}

		return tx.Create(&option).Error
	})
	if err != nil {
		return nil, s.internal(err, "Failed to create new poll option", zap.Uint("poll_id", pollID))
	}

	return &option, nil
}

func (s *Service) GetOption(ctx context.Context, optionID uint) (*models.PollOption, error) {
	return findOption(s.db.WithContext(ctx), optionID)
}

func (s *Service) GetOptionPoll(ctx context.Context, optionID uint) (*models.Poll, error) {
	db := s.db.WithContext(ctx)
	option, err := findOption(db, optionID)
	if err != nil {
		return nil, err
	}
	return findPoll(db, option.PollID)
}

func (s *Service) GetPollOptions(ctx context.Context, pollID uint) ([]models.PollOption, error) {
	db := s.db.WithContext(ctx)
	if _, err := findPoll(db, pollID); err != nil {
		return nil, err
	}

	var options []models.PollOption
	if err := db.Where("poll_id = ?", pollID).Order("id").Find(&options).Error; err != nil {
		return nil, apperror.Internal("Failed to fetch poll options", err)
	}
	return options, nil
}

func (s *Service) SetOptionValue(ctx context.Context, callerID, optionID uint, value string) error {
	if err := validateOptionValue(value); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	option, err := findOption(db, optionID)
	if err != nil {
		return err
	}
	if _, err := ownedPoll(db, callerID, option.PollID); err != nil {
		return err
	}

	if err := db.Model(&models.PollOption{}).Where("id = ?", optionID).Update("value", value).Error; err != nil {
		return s.internal(err, "Failed to update poll option", zap.Uint("poll_option_id", optionID))
	}
	return nil
}

// DeleteOption removes the option and every vote cast for it.
func (s *Service) DeleteOption(ctx context.Context, callerID, optionID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		option, err := findOption(tx, optionID)
		if err != nil {
			return err
		}
		if _, err := ownedPoll(tx, callerID, option.PollID); err != nil {
			return err
		}
		if err := tx.Where("poll_option_id = ?", optionID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PollOption{}, optionID).Error
	})
	if err != nil {
		return s.internal(err, "Failed to delete poll option", zap.Uint("poll_option_id", optionID))
	}
	return nil
}

func findOption(db *gorm.DB, optionID uint) (*models.PollOption, error) {
	var option models.PollOption
	if err := db.First(&option, optionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgOptionNotFound)
		}
		return nil, apperror.Internal("Failed to fetch poll option", err)
	}
	return &option, nil
}
