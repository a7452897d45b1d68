package todo

import (
	"errors"
	"fmt"

	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound covers both missing todos and todos owned by someone else, so
// callers cannot probe for the existence of other users' records.
var ErrNotFound = errors.New("todo not found")

type Update struct {
	Title       *string
	Description *string
	Done        *bool
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

func (s *Service) ListByOwner(ownerID uint) ([]models.Todo, error) {
	var todos []models.Todo
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

func (s *Service) Create(ownerID uint, title, description string) (*models.Todo, error) {
	item := &models.Todo{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Debug("todo created", zap.Uint("todo_id", item.ID), zap.Uint("owner_id", ownerID))

	// re-read so the response reflects server-assigned timestamps
	return s.reload(item.ID)
}

func (s *Service) GetOwned(ownerID, todoID uint) (*models.Todo, error) {
	var item models.Todo
	if err := s.db.Where("id = ? AND owner_id = ?", todoID, ownerID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &item, nil
}

func (s *Service) UpdateOwned(ownerID, todoID uint, update Update) (*models.Todo, error) {
	item, err := s.GetOwned(ownerID, todoID)
	if err != nil {
		return nil, err
	}

	return s.apply(item, update)
}

func (s *Service) DeleteOwned(ownerID, todoID uint) error {
	result := s.db.Where("id = ? AND owner_id = ?", todoID, ownerID).Delete(&models.Todo{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("todo deleted", zap.Uint("todo_id", todoID), zap.Uint("owner_id", ownerID))
	return nil
}

func (s *Service) ListAll() ([]models.Todo, error) {
	var todos []models.Todo
	if err := s.db.Preload("Owner").
		Order("created_at DESC, id DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

func (s *Service) GetAny(todoID uint) (*models.Todo, error) {
	var item models.Todo
	if err := s.db.First(&item, todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &item, nil
}

func (s *Service) DeleteAny(todoID uint) error {
	result := s.db.Delete(&models.Todo{}, todoID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("todo deleted by admin", zap.Uint("todo_id", todoID))
	return nil
}

func (s *Service) apply(item *models.Todo, update Update) (*models.Todo, error) {
	changes := map[string]any{}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Done != nil {
		changes["done"] = *update.Done
	}

	if len(changes) > 0 {
		if err := s.db.Model(item).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update todo: %w", err)
		}
	}

	return s.reload(item.ID)
}

func (s *Service) reload(todoID uint) (*models.Todo, error) {
	var item models.Todo
	if err := s.db.First(&item, todoID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload todo: %w", err)
	}
	return &item, nil
}
