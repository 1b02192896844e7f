package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgNotLoggedIn = "Not logged in"

	// lastUsedResolution bounds how often a lookup rewrites last_used.
	lastUsedResolution = time.Minute
)

type Service struct {
	config *config.SessionConfig
	db     *gorm.DB
	logger *logging.Service
	now    func() time.Time
}

func NewService(cfg *config.SessionConfig, db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		db:     db,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *Service) maxPerUser() int {
	if s.config.MaxPerUser < 1 {
		return 4
	}
	return s.config.MaxPerUser
}

// CreateSession issues a new session for userID and evicts that user's oldest
// sessions beyond the per-user limit. The returned token is the only copy of
// the session id; only its hash is stored.
func (s *Service) CreateSession(ctx context.Context, userID uint, client ClientInfo) (string, error) {
	token, err := s.generateToken()
	if err != nil {
		s.logger.Error("failed to generate session token", zap.Error(err))
		return "", apperror.Internal("Failed to create session", err)
	}

	now := s.now()
	record := models.Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		IPAddress: truncate(client.IPAddress, 45),
		UserAgent: truncate(client.UserAgent, 500),
		CreatedAt: now,
		LastUsed:  now,
		ExpiresAt: now.Add(s.config.MaxAge),
	}

	var evicted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		evicted, err = s.evictOldest(tx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err), zap.Uint("user_id", userID))
		return "", apperror.Internal("Failed to create session", err)
	}

	s.logger.Info("session created",
		zap.Uint("user_id", userID),
		zap.Uint("session_id", record.ID),
		zap.Int64("evicted", evicted))
	return token, nil
}

func (s *Service) evictOldest(tx *gorm.DB, userID uint) (int64, error) {
	var keep []uint
	err := tx.Model(&models.Session{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(s.maxPerUser()).
		Pluck("id", &keep).Error
	if err != nil {
		return 0, err
	}

	if len(keep) < s.maxPerUser() {
		return 0, nil
	}

	result := tx.Where("user_id = ? AND id NOT IN ?", userID, keep).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// GetUserBySession resolves a live session token to its owner.
func (s *Service) GetUserBySession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Auth(MsgNotLoggedIn)
	}

	db := s.db.WithContext(ctx)
	now := s.now()

	var record models.Session
	err := db.Where("token_hash = ? AND expires_at > ?", hashToken(token), now).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Auth(MsgNotLoggedIn)
		}
		s.logger.Error("failed to look up session", zap.Error(err))
		return nil, apperror.Internal("Failed to get session", err)
	}

	var user models.User
	if err := db.First(&user, record.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Auth(MsgNotLoggedIn)
		}
		s.logger.Error("failed to load session user", zap.Error(err), zap.Uint("user_id", record.UserID))
		return nil, apperror.Internal("Failed to get session", err)
	}

	if now.Sub(record.LastUsed) >= lastUsedResolution {
		if err := db.Model(&models.Session{}).Where("id = ?", record.ID).Update("last_used", now).Error; err != nil {
			s.logger.Warn("failed to update session last_used", zap.Error(err), zap.Uint("session_id", record.ID))
		}
	}

	return &user, nil
}

// DeleteSession removes the session for token. Unknown tokens are ignored.
func (s *Service) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.db.WithContext(ctx).Where("token_hash = ?", hashToken(token)).Delete(&models.Session{}).Error; err != nil {
		s.logger.Error("failed to delete session", zap.Error(err))
		return apperror.Internal("Failed to delete session", err)
	}
	return nil
}

func (s *Service) DeleteUserSessions(ctx context.Context, userID uint) error {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if result.Error != nil {
		s.logger.Error("failed to delete user sessions", zap.Error(result.Error), zap.Uint("user_id", userID))
		return apperror.Internal("Failed to delete sessions", result.Error)
	}

	s.logger.Info("user sessions deleted", zap.Uint("user_id", userID), zap.Int64("count", result.RowsAffected))
	return nil
}

// GetUserSessions lists the live sessions of userID, newest first.
func (s *Service) GetUserSessions(ctx context.Context, userID uint, currentToken string) ([]SessionInfo, error) {
	var records []models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, s.now()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		s.logger.Error("failed to list sessions", zap.Error(err), zap.Uint("user_id", userID))
		return nil, apperror.Internal("Failed to get sessions", err)
	}

	currentHash := ""
	if currentToken != "" {
		currentHash = hashToken(currentToken)
	}

	sessions := make([]SessionInfo, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, SessionInfo{
			ID:        record.ID,
			IPAddress: record.IPAddress,
			Browser:   GetBrowserInfo(record.UserAgent),
			Device:    GetDeviceInfo(record.UserAgent),
			Current:   record.TokenHash == currentHash,
			CreatedAt: record.CreatedAt,
			LastUsed:  record.LastUsed,
			ExpiresAt: record.ExpiresAt,
		})
	}
	return sessions, nil
}

// RevokeSession deletes one of userID's own sessions by its listed id.
func (s *Service) RevokeSession(ctx context.Context, userID, sessionID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.Session{})
	if result.Error != nil {
		s.logger.Error("failed to revoke session", zap.Error(result.Error), zap.Uint("session_id", sessionID))
		return apperror.Internal("Failed to revoke session", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Session does not exist")
	}

	s.logger.Info("session revoked", zap.Uint("user_id", userID), zap.Uint("session_id", sessionID))
	return nil
}

func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Service) generateToken() (string, error) {
	length := s.config.TokenLength
	if length <= 0 {
		length = 32
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
