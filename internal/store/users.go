package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	if _, err := s.FindByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	}
	return s.insert(ctx, u)
}

// insert leans on the unique email index when two registrations race past
// the lookup in Create.
func (s *Users) insert(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Users) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Users) SetDeviceToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.setColumn(ctx, id, "fcm_token", token)
}

func (s *Users) SetProfileImage(ctx context.Context, id uuid.UUID, url string) error {
	return s.setColumn(ctx, id, "profile_image", url)
}

func (s *Users) setColumn(ctx context.Context, id uuid.UUID, column, value string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("update user %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
