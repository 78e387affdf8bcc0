package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityHobby        ActivityType = "hobby"
	ActivityFitness      ActivityType = "fitness"
	ActivityMentalHealth ActivityType = "mental_health"
)

// Activity is a single self-care entry owned by one user.
type Activity struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Type        ActivityType   `json:"type" gorm:"not null;default:'hobby'"`
	Title       string         `json:"title" gorm:"not null"`
	Description *string        `json:"description"`
	StartTime   time.Time      `json:"startTime" gorm:"not null;index"`
	EndTime     time.Time      `json:"endTime" gorm:"not null"`
	Duration    *float64       `json:"duration"` // hours
	Completed   bool           `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CreateActivityRequest carries times as strings: RFC 3339, or the
// datetime-local form ("2024-06-10T08:00") read in the caller's timezone.
type CreateActivityRequest struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
}

type UpdateActivityRequest struct {
	Type        *string `json:"type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ActivityListResponse is what the activity page renders.
type ActivityListResponse struct {
	Activities         []Activity `json:"activities"`
	Incomplete         []Activity `json:"incomplete"`
	Completed          []Activity `json:"completed"`
	WeeklyHours        float64    `json:"weeklyHours"`
	WeeklyHoursDisplay string     `json:"weeklyHoursDisplay"`
	WeekStart          time.Time  `json:"weekStart"`
}

type SummaryResponse struct {
	WeeklyHours        float64                  `json:"weeklyHours"`
	WeeklyHoursDisplay string                   `json:"weeklyHoursDisplay"`
	WeekStart          time.Time                `json:"weekStart"`
	CompletedCount     int                      `json:"completedCount"`
	IncompleteCount    int                      `json:"incompleteCount"`
	ByType             map[ActivityType]float64 `json:"byType"`
}
