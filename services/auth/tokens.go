package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var errTokenNotFound = errors.New("token not found")

// tokenRow maps both single-use token tables, which share one shape.
type tokenRow struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

type tokenKind struct {
	table  string
	expiry time.Duration
}

func (s *Service) verifications() tokenKind {
	return tokenKind{table: "verifications", expiry: s.config.Auth.VerificationExpiry}
}

func (s *Service) passwordResets() tokenKind {
	return tokenKind{table: "password_resets", expiry: s.config.Auth.PasswordResetExpiry}
}

func (s *Service) generateToken() (string, error) {
	length := s.config.Auth.TokenLength
	if length <= 0 {
		length = 32
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// issueToken returns the live token for email, creating one if none exists.
func (s *Service) issueToken(ctx context.Context, kind tokenKind, email string) (string, error) {
	var token string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cutoff := s.now().Add(-kind.expiry)
		if err := tx.Table(kind.table).Where("email = ? AND created_at <= ?", email, cutoff).Delete(&tokenRow{}).Error; err != nil {
			return err
		}

		var existing tokenRow
		err := tx.Table(kind.table).Where("email = ?", email).First(&existing).Error
		if err == nil {
			token = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, err := s.generateToken()
		if err != nil {
			return err
		}
		row := tokenRow{ID: id, Email: email, CreatedAt: s.now()}
		if err := tx.Table(kind.table).Create(&row).Error; err != nil {
			return err
		}
		token = id
		return nil
	})

	// A concurrent request created the token first.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing tokenRow
		if err := s.db.WithContext(ctx).Table(kind.table).Where("email = ?", email).First(&existing).Error; err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// consumeToken deletes a live token and returns its email. The delete itself
// carries the expiry condition so a stale token can never be consumed.
func (s *Service) consumeToken(tx *gorm.DB, kind tokenKind, token string) (string, error) {
	if token == "" {
		return "", errTokenNotFound
	}

	cutoff := s.now().Add(-kind.expiry)

	var row tokenRow
	err := tx.Table(kind.table).Where("id = ? AND created_at > ?", token, cutoff).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errTokenNotFound
		}
		return "", err
	}

	result := tx.Table(kind.table).Where("id = ? AND created_at > ?", token, cutoff).Delete(&tokenRow{})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected != 1 {
		return "", errTokenNotFound
	}
	return row.Email, nil
}

func (s *Service) tokenExists(ctx context.Context, kind tokenKind, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Table(kind.table).
		Where("id = ? AND created_at > ?", token, s.now().Add(-kind.expiry)).
		Count(&count).Error
	return count == 1, err
}

func (s *Service) deleteExpiredTokens(tx *gorm.DB, kind tokenKind) (int64, error) {
	result := tx.Table(kind.table).Where("created_at <= ?", s.now().Add(-kind.expiry)).Delete(&tokenRow{})
	return result.RowsAffected, result.Error
}
