package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPasswordHashingFailed    = errors.New("failed to hash password")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailTaken               = errors.New("email already registered")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrUserInactive             = errors.New("user is inactive")
	ErrUserNotFound             = errors.New("user not found")
	ErrVerificationTokenInvalid = errors.New("invalid email verification token")
	ErrVerificationTokenExpired = errors.New("email verification token has expired")
)

const (
	MsgEmailVerified        = "Email verified"
	MsgEmailAlreadyVerified = "Email already verified"
)

type MailService interface {
	SendVerificationMail(to, verificationURL string, expiry time.Duration) error
}

type Service struct {
	config      *config.Config
	db          *gorm.DB
	mailService MailService
	logger      *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		db:     db,
		logger: logger,
	}
}

func (s *Service) SetMailService(mailService MailService) {
	s.mailService = mailService
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}

	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// Register creates an account and mints its email verification token. The
// email pre-check is advisory only; the unique constraint on users.email is
// what actually closes the concurrent-registration race, so a constraint
// violation at commit time is reported as ErrEmailTaken as well.
func (s *Service) Register(email, password string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if count > 0 {
		s.logger.Warn("registration attempted with taken email", zap.String("email", email))
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			s.logger.Warn("registration lost duplicate-email race", zap.String("email", email))
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationToken, err := s.createVerificationToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.deliverVerificationMail(user.Email, verificationToken)

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login checks credentials first so that an unverified or inactive account
// never leaks whether the password was right before the credential check.
func (s *Service) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.VerifyPassword(user.Password, password); err != nil {
		s.logger.Warn("login failed: bad credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// GetActiveUser resolves a verified token subject to an account. Missing or
// deactivated accounts are both unauthorized.
func (s *Service) GetActiveUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// VerifyEmail consumes a verification token. Expiry is compared in UTC.
// A used token against an already-verified account is an idempotent success;
// a used token against an unverified account is treated as re-usable so the
// account has a recovery path.
func (s *Service) VerifyEmail(token string) (string, error) {
	var record models.EmailVerificationToken
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("invalid email verification token attempted")
			return "", ErrVerificationTokenInvalid
		}
		return "", fmt.Errorf("failed to look up verification token: %w", err)
	}

	if record.ExpiresAt.UTC().Before(time.Now().UTC()) {
		s.logger.Warn("expired email verification token attempted",
			zap.Uint("user_id", record.UserID),
			zap.Time("expired_at", record.ExpiresAt))
		return "", ErrVerificationTokenExpired
	}

	var user models.User
	if err := s.db.First(&user, record.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVerificationTokenInvalid
		}
		return "", fmt.Errorf("failed to look up token owner: %w", err)
	}

	if record.Used && user.EmailVerified {
		return MsgEmailAlreadyVerified, nil
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("email_verified", true).Error; err != nil {
			return err
		}
		return tx.Model(&record).Updates(map[string]any{"used": true, "used_at": &now}).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to mark email as verified: %w", err)
	}

	s.logger.Info("email verified", zap.Uint("user_id", user.ID))
	return MsgEmailVerified, nil
}

func (s *Service) CleanupExpiredVerificationTokens() error {
	result := s.db.Where("expires_at < ?", time.Now().UTC()).Delete(&models.EmailVerificationToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired email verification tokens: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info("expired email verification tokens cleaned up", zap.Int64("tokens_removed", result.RowsAffected))
	}
	return nil
}

func (s *Service) createVerificationToken(userID uint) (*models.EmailVerificationToken, error) {
	token, err := s.generateVerificationToken()
	if err != nil {
		return nil, err
	}

	verificationToken := &models.EmailVerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.config.Auth.EmailVerificationExpiry),
		Used:      false,
	}

	if err := s.db.Create(verificationToken).Error; err != nil {
		return nil, fmt.Errorf("failed to create email verification token: %w", err)
	}

	return verificationToken, nil
}

func (s *Service) generateVerificationToken() (string, error) {
	bytes := make([]byte, s.config.Auth.EmailVerificationTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *Service) deliverVerificationMail(email string, token *models.EmailVerificationToken) {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", s.config.App.URL, token.Token)

	if s.mailService == nil {
		s.logger.Info("mail service not configured, logging verification link",
			zap.String("email", email),
			zap.String("url", verificationURL))
		return
	}

	if err := s.mailService.SendVerificationMail(email, verificationURL, s.config.Auth.EmailVerificationExpiry); err != nil {
		s.logger.Error("failed to send verification email", zap.Error(err), zap.String("email", email))
	}
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
