package auth

import (
	"context"
	"errors"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal("Failed to fetch user", err)
	}
	return &user, nil
}

func (s *Service) SetUsername(ctx context.Context, id uint, username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("username", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Conflict(MsgUsernameTaken)
		}
		s.logger.Error("failed to set username", zap.Error(result.Error), zap.Uint("user_id", id))
		return apperror.Internal("Failed to set username", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(MsgUserNotFound)
	}
	return nil
}

func (s *Service) SetPassword(ctx context.Context, id uint, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		s.logger.Error("failed to set password", zap.Error(result.Error), zap.Uint("user_id", id))
		return apperror.Internal("Failed to set password", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(MsgUserNotFound)
	}
	return nil
}

// DeleteAccount removes the user together with everything that references it.
func (s *Service) DeleteAccount(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		return deleteUserData(tx, &user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		s.logger.Error("failed to delete account", zap.Error(err), zap.Uint("user_id", id))
		return apperror.Internal("Failed to delete account", err)
	}

	s.logger.Info("account deleted", zap.Uint("user_id", id))
	return nil
}

func deleteUserData(tx *gorm.DB, user *models.User) error {
	ownedPolls := tx.Model(&models.Poll{}).Select("id").Where("user_id = ?", user.ID)

	if err := tx.Where("user_id = ? OR poll_id IN (?)", user.ID, ownedPolls).Delete(&models.PollVote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("poll_id IN (?)", ownedPolls).Delete(&models.PollOption{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Poll{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
		return err
	}
	if err := tx.Where("email = ?", user.Email).Delete(&models.Verification{}).Error; err != nil {
		return err
	}
	if err := tx.Where("email = ?", user.Email).Delete(&models.PasswordReset{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.User{}, user.ID).Error
}

// Prune deletes expired tokens and unverified accounts past the retention
// window. Every step is a plain DELETE, so concurrent runs are harmless.
func (s *Service) Prune(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	verifications, err := s.deleteExpiredTokens(db, s.verifications())
	if err != nil {
		return apperror.Internal("Failed to prune verifications", err)
	}

	resets, err := s.deleteExpiredTokens(db, s.passwordResets())
	if err != nil {
		return apperror.Internal("Failed to prune password resets", err)
	}

	var stale []models.User
	cutoff := s.now().Add(-s.config.Auth.UnverifiedUserRetention)
	if err := db.Where("verified = ? AND created_at <= ?", false, cutoff).Find(&stale).Error; err != nil {
		return apperror.Internal("Failed to prune users", err)
	}

	for i := range stale {
		user := &stale[i]
		err := db.Transaction(func(tx *gorm.DB) error {
			return deleteUserData(tx, user)
		})
		if err != nil {
			return apperror.Internal("Failed to prune users", err)
		}
	}

	if verifications+resets+int64(len(stale)) > 0 {
		s.logger.Info("pruned expired records",
			zap.Int64("verifications", verifications),
			zap.Int64("password_resets", resets),
			zap.Int("unverified_users", len(stale)))
	}
	return nil
}

// pruneQuietly runs Prune ahead of credential operations; a failed sweep
// never fails the operation itself.
func (s *Service) pruneQuietly(ctx context.Context) {
	if err := s.Prune(ctx); err != nil {
		s.logger.Warn("prune failed", zap.Error(err))
	}
}
