package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Activities struct {
	db *gorm.DB
}

func NewActivities(db *gorm.DB) *Activities {
	return &Activities{db: db}
}

func (s *Activities) Create(ctx context.Context, a *models.Activity) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListByOwner returns every activity of ownerID. Order is not guaranteed;
// callers sort.
func (s *Activities) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (s *Activities) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Activity, error) {
	var a models.Activity
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Update saves editable fields. Completion state is never written here.
func (s *Activities) Update(ctx context.Context, a *models.Activity) error {
	result := s.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ? AND user_id = ?", a.ID, a.UserID).
		Updates(map[string]interface{}{
			"type":        a.Type,
			"title":       a.Title,
			"description": a.Description,
		})
	if result.Error != nil {
		return fmt.Errorf("update activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Activities) MarkComplete(ctx context.Context, ownerID, id uuid.UUID, at time.Time) (*models.Activity, bool, error) {
	var (
		a       models.Activity
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, ownerID).
			First(&a).Error; err != nil {
			return notFound(err)
		}

		// The completed = false guard keeps racing requests from both
		// reporting a transition.
		result := tx.Model(&models.Activity{}).
			Where("id = ? AND user_id = ? AND completed = ?", id, ownerID, false).
			Updates(map[string]interface{}{"completed": true, "completed_at": at})
		if result.Error != nil {
			return result.Error
		}
		changed = result.RowsAffected > 0

		return tx.Where("id = ?", id).First(&a).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("complete activity: %w", err)
	}
	return &a, changed, nil
}

func (s *Activities) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Activity{})
	if result.Error != nil {
		return fmt.Errorf("delete activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
