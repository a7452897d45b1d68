package user

import (
	"errors"
	"fmt"

	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("user not found")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image too large")
	ErrNoAvatar             = errors.New("no avatar set")
)

const MaxAvatarBytes = 2 * 1024 * 1024

var allowedAvatarMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AdminUpdate carries the optional account flag edits an administrator may
// apply. Deactivate is the inverse of the stored is_active column.
type AdminUpdate struct {
	MakeAdmin   *bool
	VerifyEmail *bool
	Deactivate  *bool
}

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (s *Service) ApplyAdminUpdate(userID uint, update AdminUpdate) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if update.MakeAdmin != nil {
		changes["is_admin"] = *update.MakeAdmin
	}
	if update.VerifyEmail != nil {
		changes["email_verified"] = *update.VerifyEmail
	}
	if update.Deactivate != nil {
		changes["is_active"] = !*update.Deactivate
	}

	if len(changes) > 0 {
		if err := s.db.Model(user).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		s.logger.Info("admin updated user flags", zap.Uint("user_id", userID))
	}

	return s.GetByID(userID)
}

func (s *Service) SetAvatar(userID uint, data []byte, mime string) (*models.User, error) {
	if !allowedAvatarMimes[mime] {
		return nil, ErrUnsupportedImageType
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrImageTooLarge
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Updates(map[string]any{
		"avatar":      data,
		"avatar_mime": mime,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	s.logger.Info("avatar stored",
		zap.Uint("user_id", userID),
		zap.String("mime", mime),
		zap.Int("bytes", len(data)))

	return s.GetByID(userID)
}

func (s *Service) GetAvatar(userID uint) ([]byte, string, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, "", err
	}

	if len(user.Avatar) == 0 {
		return nil, "", ErrNoAvatar
	}

	mime := user.AvatarMime
	if mime == "" {
		mime = "application/octet-stream"
	}

	return user.Avatar, mime, nil
}
