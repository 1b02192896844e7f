package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MsgInvalidLogin       = "Invalid login"
	MsgAccountNotVerified = "Account not verified"
	MsgInvalidVerifyID    = "Invalid verify ID"
	MsgInvalidResetID     = "Invalid password reset ID"
	MsgUserNotFound       = "User does not exist"
	MsgUsernameTaken      = "Username is already taken"
	MsgEmailTaken         = "Email is already in use"

	VerifyTemplate        = "verify"
	VerifySubject         = "GreenPoll - Verify Account"
	PasswordResetTemplate = "password_reset"
	PasswordResetSubject  = "GreenPoll - Password Reset"
)

type MailService interface {
	SendTemplate(templateName string, to []string, subject string, data map[string]any) error
}

type SessionIssuer interface {
	CreateSession(ctx context.Context, userID uint, client session.ClientInfo) (string, error)
}

type Service struct {
	config      *config.Config
	db          *gorm.DB
	mailService MailService
	sessions    SessionIssuer
	logger      *logging.Service
	now         func() time.Time
	bcryptCost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(cfg *config.Config, db *gorm.DB, mailService MailService, sessions SessionIssuer, logger *logging.Service) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		bcryptCost:  cost,
		config:      cfg,
		db:          db,
		mailService: mailService,
		sessions:    sessions,
		logger:      logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", apperror.Internal("Failed to hash password", err)
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return apperror.Auth(MsgInvalidLogin)
	}
	return nil
}

// burnPasswordCheck spends the same bcrypt work as a real comparison so that
// unknown emails are not distinguishable by response time.
func (s *Service) burnPasswordCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("greenpoll-dummy-password"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

// Register creates an unverified account and mails its verification token.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	s.pruneQuietly(ctx)

	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		Verified:  false,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Username or email is already in use")
		}
		s.logger.Error("failed to create user", zap.Error(err), zap.String("username", username))
		return nil, apperror.Internal("Failed to create new user", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", username))

	if err := s.sendVerification(ctx, &user); err != nil {
		s.discardRegistration(ctx, &user)
		return nil, err
	}
	return &user, nil
}

// discardRegistration removes an account whose verification could not be
// dispatched so that registering again is possible.
func (s *Service) discardRegistration(ctx context.Context, user *models.User) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.verifications().table).Where("email = ?", user.Email).Delete(&tokenRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		s.logger.Error("failed to discard registration", zap.Error(err), zap.Uint("user_id", user.ID))
		return
	}
	s.logger.Info("registration discarded", zap.Uint("user_id", user.ID))
}

func (s *Service) checkAvailable(ctx context.Context, username, email string) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return apperror.Internal("Failed to create new user", err)
	}
	if count > 0 {
		return apperror.Conflict(MsgUsernameTaken)
	}

	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return apperror.Internal("Failed to create new user", err)
	}
	if count > 0 {
		return apperror.Conflict(MsgEmailTaken)
	}
	return nil
}

func (s *Service) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.issueToken(ctx, s.verifications(), user.Email)
	if err != nil {
		s.logger.Error("failed to create verification", zap.Error(err), zap.Uint("user_id", user.ID))
		return apperror.Internal("Failed to create verification", err)
	}

	data := map[string]any{
		"username":   user.Username,
		"verify_id":  token,
		"url":        s.config.App.FrontendURL,
		"expires_in": humanizeDuration(s.config.Auth.VerificationExpiry),
	}
	if err := s.mailService.SendTemplate(VerifyTemplate, []string{user.Email}, VerifySubject, data); err != nil {
		s.logger.Error("failed to send verification email", zap.Error(err), zap.Uint("user_id", user.ID))
		return apperror.Internal("Failed to send verification email", err)
	}
	return nil
}

// ResendVerification mails the pending verification token again. Unknown
// and already verified accounts succeed silently unless unknown emails are
// configured to be revealed.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	s.pruneQuietly(ctx)

	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) && !s.config.Auth.RevealUnknownResetEmail {
			return nil
		}
		return err
	}
	if user.Verified {
		if s.config.Auth.RevealUnknownResetEmail {
			return apperror.Conflict("Account is already verified")
		}
		return nil
	}

	return s.sendVerification(ctx, user)
}

// VerifyAccount consumes a verification token and marks its account verified.
func (s *Service) VerifyAccount(ctx context.Context, token string) error {
	var email string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		email, err = s.consumeToken(tx, s.verifications(), token)
		if err != nil {
			return err
		}

		result := tx.Model(&models.User{}).Where("email = ?", email).Update("verified", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errTokenNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errTokenNotFound) {
			return apperror.NotFound(MsgInvalidVerifyID)
		}
		s.logger.Error("failed to verify account", zap.Error(err))
		return apperror.Internal("Failed to verify account", err)
	}

	s.logger.Info("account verified", zap.String("email", email))
	return nil
}

// Login checks credentials and issues a new session token.
func (s *Service) Login(ctx context.Context, email, password string, client session.ClientInfo) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnPasswordCheck(password)
			s.logger.Warn("login failed", zap.String("reason", "unknown email"))
			return "", nil, apperror.Auth(MsgInvalidLogin)
		}
		s.logger.Error("failed to look up user for login", zap.Error(err))
		return "", nil, apperror.Internal("Failed to fetch user", err)
	}

	if err := s.VerifyPassword(user.Password, password); err != nil {
		s.logger.Warn("login failed", zap.String("reason", "wrong password"), zap.Uint("user_id", user.ID))
		return "", nil, err
	}

	if s.config.Auth.RequireVerifiedLogin && !user.Verified {
		return "", nil, apperror.Auth(MsgAccountNotVerified)
	}

	token, err := s.sessions.CreateSession(ctx, user.ID, client)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return token, &user, nil
}

// RequestPasswordReset mails a reset token to the account owning email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	s.pruneQuietly(ctx)

	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) && !s.config.Auth.RevealUnknownResetEmail {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.issueToken(ctx, s.passwordResets(), user.Email)
	if err != nil {
		s.logger.Error("failed to create password reset", zap.Error(err), zap.Uint("user_id", user.ID))
		return apperror.Internal("Failed to create password reset", err)
	}

	data := map[string]any{
		"url":        s.config.App.FrontendURL,
		"reset_id":   token,
		"expires_in": humanizeDuration(s.config.Auth.PasswordResetExpiry),
	}
	if err := s.mailService.SendTemplate(PasswordResetTemplate, []string{user.Email}, PasswordResetSubject, data); err != nil {
		s.logger.Error("failed to send password reset email", zap.Error(err), zap.Uint("user_id", user.ID))
		return apperror.Internal("Failed to send password reset email", err)
	}

	s.logger.Info("password reset requested", zap.Uint("user_id", user.ID))
	return nil
}

func (s *Service) PasswordResetExists(ctx context.Context, token string) (bool, error) {
	exists, err := s.tokenExists(ctx, s.passwordResets(), token)
	if err != nil {
		return false, apperror.Internal("Failed to check if password reset record exists", err)
	}
	return exists, nil
}

// ResetPassword consumes a reset token and replaces the owner's password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	var email string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		email, err = s.consumeToken(tx, s.passwordResets(), token)
		if err != nil {
			return err
		}

		result := tx.Model(&models.User{}).Where("email = ?", email).Update("password", hash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errTokenNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errTokenNotFound) {
			return apperror.Auth(MsgInvalidResetID)
		}
		s.logger.Error("failed to reset password", zap.Error(err))
		return apperror.Internal("Failed to reset password", err)
	}

	s.logger.Info("password reset completed", zap.String("email", email))
	return nil
}

func (s *Service) findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal("Failed to fetch user", err)
	}
	return &user, nil
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
