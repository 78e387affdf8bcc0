package selfcare

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/google/uuid"
)

var (
	ErrInvalidType    = errors.New("type must be one of: hobby, fitness, mental_health")
	ErrTitleRequired  = errors.New("title is required")
	ErrTimeRequired   = errors.New("start time and end time are required")
	ErrInvalidTime    = errors.New("invalid timestamp")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	// ErrUncomplete is returned when a caller tries to flip a completed
	// activity back to incomplete.
	ErrUncomplete = errors.New("activities cannot be marked incomplete")
)

// ParseType accepts the canonical type names plus the "mental health"
// spelling older clients send.
func ParseType(s string) (models.ActivityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hobby":
		return models.ActivityHobby, nil
	case "fitness":
		return models.ActivityFitness, nil
	case "mental_health", "mental health", "mental-health":
		return models.ActivityMentalHealth, nil
	}
	return "", ErrInvalidType
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp reads an RFC 3339 instant, or a zone-less local timestamp
// interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrTimeRequired
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// DurationHours is (end - start) in hours, never negative.
func DurationHours(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// NewActivity validates a create request and builds the record to store.
// An empty type defaults to hobby, matching the form default.
func NewActivity(ownerID uuid.UUID, req models.CreateActivityRequest, loc *time.Location) (models.Activity, error) {
	activityType := models.ActivityHobby
	if strings.TrimSpace(req.Type) != "" {
		t, err := ParseType(req.Type)
		if err != nil {
			return models.Activity{}, err
		}
		activityType = t
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Activity{}, ErrTitleRequired
	}
	if strings.TrimSpace(req.StartTime) == "" || strings.TrimSpace(req.EndTime) == "" {
		return models.Activity{}, ErrTimeRequired
	}
	start, err := ParseTimestamp(req.StartTime, loc)
	if err != nil {
		return models.Activity{}, err
	}
	end, err := ParseTimestamp(req.EndTime, loc)
	if err != nil {
		return models.Activity{}, err
	}
	if !end.After(start) {
		return models.Activity{}, ErrEndBeforeStart
	}

	duration := DurationHours(start, end)
	return models.Activity{
		UserID:      ownerID,
		Type:        activityType,
		Title:       title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Duration:    &duration,
	}, nil
}

// ApplyUpdate copies editable fields from req onto a. It reports whether the
// request asks for completion. Completion itself goes through the store so the
// transition is recorded once.
func ApplyUpdate(a *models.Activity, req models.UpdateActivityRequest) (complete bool, err error) {
	if req.Completed != nil && !*req.Completed {
		return false, ErrUncomplete
	}
	if req.Type != nil {
		t, err := ParseType(*req.Type)
		if err != nil {
			return false, err
		}
		a.Type = t
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return false, ErrTitleRequired
		}
		a.Title = title
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	return req.Completed != nil && *req.Completed, nil
}
