// Package store persists users and their activities with GORM.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

// ActivityStore is the per-user activity collection.
type ActivityStore interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Activity, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Activity, error)
	Update(ctx context.Context, a *models.Activity) error
	// MarkComplete flips completed to true. The bool reports whether this
	// call performed the transition; repeat calls return false and no error.
	MarkComplete(ctx context.Context, ownerID, id uuid.UUID, at time.Time) (*models.Activity, bool, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetDeviceToken(ctx context.Context, id uuid.UUID, token string) error
	SetProfileImage(ctx context.Context, id uuid.UUID, url string) error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
