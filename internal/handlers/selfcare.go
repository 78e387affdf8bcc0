package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/arnold/selfcare-api/internal/observability"
	"github.com/arnold/selfcare-api/internal/selfcare"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListActivities returns the sorted activity list, its completed/incomplete
// split and the weekly completed hours.
func (h *Handler) ListActivities(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}

	summary, err := h.summarize(c.UserContext(), userID, loc)
	if err != nil {
		return h.storeFailure(c, "Failed to load activities", err)
	}
	observability.RecordWeeklyHours(summary.WeeklyHours)

	return c.JSON(models.ActivityListResponse{
		Activities:         summary.Activities,
		Incomplete:         summary.Incomplete,
		Completed:          summary.Completed,
		WeeklyHours:        summary.WeeklyHours,
		WeeklyHoursDisplay: selfcare.FormatHours(summary.WeeklyHours),
		WeekStart:          summary.WeekStart,
	})
}

func (h *Handler) GetSummary(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}

	summary, err := h.summarize(c.UserContext(), userID, loc)
	if err != nil {
		return h.storeFailure(c, "Failed to load activities", err)
	}
	observability.RecordWeeklyHours(summary.WeeklyHours)

	return c.JSON(summaryResponse(summary))
}

func (h *Handler) CreateActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}

	var req models.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := selfcare.NewActivity(userID, req, loc)
	if err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.activities.Create(c.UserContext(), &activity); err != nil {
		return h.storeFailure(c, "Failed to create activity", err)
	}
	observability.RecordActivityCreated(activity.Type)
	h.publish(c.UserContext(), userID, loc, EventActivityCreated, activity)

	return c.Status(fiber.StatusCreated).JSON(activity)
}

func (h *Handler) GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity ID")
	}

	activity, err := h.activities.Get(c.UserContext(), userID, activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Activity not found")
		}
		return h.storeFailure(c, "Failed to load activity", err)
	}
	return c.JSON(activity)
}

// UpdateActivity edits title, description and type. A body of
// {"completed": true} completes the activity; completed=false is rejected.
func (h *Handler) UpdateActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity ID")
	}
	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}

	var req models.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := h.activities.Get(c.UserContext(), userID, activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Activity not found")
		}
		return h.storeFailure(c, "Failed to load activity", err)
	}

	complete, err := selfcare.ApplyUpdate(activity, req)
	if err != nil {
		return badRequest(c, validationMessage(err))
	}

	if req.Title != nil || req.Description != nil || req.Type != nil {
		if err := h.activities.Update(c.UserContext(), activity); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(c, "Activity not found")
			}
			return h.storeFailure(c, "Failed to update activity", err)
		}
	}

	if complete {
		return h.complete(c, userID, activityID, loc)
	}

	h.publish(c.UserContext(), userID, loc, EventActivityUpdated, *activity)
	return c.JSON(activity)
}

func (h *Handler) CompleteActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity ID")
	}
	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}
	return h.complete(c, userID, activityID, loc)
}

func (h *Handler) DeleteActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity ID")
	}
	loc, err := h.location(c)
	if err != nil {
		return badRequest(c, "Invalid timezone")
	}

	if err := h.activities.Delete(c.UserContext(), userID, activityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Activity not found")
		}
		return h.storeFailure(c, "Failed to delete activity", err)
	}
	h.publish(c.UserContext(), userID, loc, EventActivityDeleted, models.Activity{ID: activityID, UserID: userID})

	return c.SendStatus(fiber.StatusNoContent)
}

// complete marks the activity done. Only the call that performs the
// transition counts it and pushes a notification; repeats just return the
// current record. loc is the caller's calendar for the pushed weekly total.
func (h *Handler) complete(c *fiber.Ctx, userID, activityID uuid.UUID, loc *time.Location) error {
	ctx := c.UserContext()
	activity, changed, err := h.activities.MarkComplete(ctx, userID, activityID, h.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Activity not found")
		}
		return h.storeFailure(c, "Failed to complete activity", err)
	}

	if changed {
		observability.RecordActivityCompleted(activity.Type)
		summary := h.publish(ctx, userID, loc, EventActivityCompleted, *activity)
		if summary != nil && h.push.Enabled() {
			user := middleware.GetUser(c)
			a := *activity
			hours := summary.WeeklyHours
			go h.push.ActivityCompleted(context.Background(), user, a, hours)
		}
	}

	return c.JSON(activity)
}

// publish takes one snapshot of the owner's activities after a write and
// sends each open websocket connection a summary on that connection's own
// calendar. The returned summary uses loc, the caller's calendar. Failures
// are logged, not returned: the write already succeeded.
func (h *Handler) publish(ctx context.Context, userID uuid.UUID, loc *time.Location, eventType string, activity models.Activity) *models.SummaryResponse {
	activities, err := h.activities.ListByOwner(ctx, userID)
	if err != nil {
		h.log.Warn("recompute summary after write", zap.Stringer("userId", userID), zap.Error(err))
		return nil
	}
	now := h.now()

	h.hub.Broadcast(userID, func(connLoc *time.Location) WSEvent {
		return WSEvent{
			Type:   eventType,
			UserID: userID.String(),
			Data: ActivityEvent{
				Activity: activity,
				Summary:  summaryResponse(selfcare.Summarize(activities, now.In(connLoc))),
			},
		}
	})

	resp := summaryResponse(selfcare.Summarize(activities, now.In(loc)))
	return &resp
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, selfcare.ErrInvalidType):
		return "Invalid activity type. Must be: hobby, fitness, or mental_health"
	case errors.Is(err, selfcare.ErrTitleRequired):
		return "Title is required"
	case errors.Is(err, selfcare.ErrTimeRequired):
		return "Start time and end time are required"
	case errors.Is(err, selfcare.ErrInvalidTime):
		return "Invalid start or end time"
	case errors.Is(err, selfcare.ErrEndBeforeStart):
		return "End time must be after start time"
	case errors.Is(err, selfcare.ErrUncomplete):
		return "Completed activities cannot be marked incomplete"
	}
	return "Invalid activity"
}
