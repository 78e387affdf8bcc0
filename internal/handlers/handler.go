package handlers

import (
	"context"
	"time"
	_ "time/tzdata"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/arnold/selfcare-api/internal/selfcare"
	"github.com/arnold/selfcare-api/internal/services"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps are the collaborators handlers need. Clock defaults to time.Now.
type Deps struct {
	Activities store.ActivityStore
	Users      store.UserStore
	Push       *services.PushService
	Hub        *Hub
	Log        *zap.Logger
	Clock      func() time.Time
	Location   *time.Location
	JWTSecret  string
	JWTTTL     time.Duration
	UploadsDir string
}

type Handler struct {
	activities store.ActivityStore
	users      store.UserStore
	push       *services.PushService
	hub        *Hub
	log        *zap.Logger
	now        func() time.Time
	loc        *time.Location
	jwtSecret  string
	jwtTTL     time.Duration
	uploadsDir string
}

func New(d Deps) *Handler {
	h := &Handler{
		activities: d.Activities,
		users:      d.Users,
		push:       d.Push,
		hub:        d.Hub,
		log:        d.Log,
		now:        d.Clock,
		loc:        d.Location,
		jwtSecret:  d.JWTSecret,
		jwtTTL:     d.JWTTTL,
		uploadsDir: d.UploadsDir,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.hub == nil {
		h.hub = NewHub(h.loc, h.log)
	}
	if h.push == nil {
		h.push = services.NewPush(nil, h.log)
	}
	if h.jwtTTL <= 0 {
		h.jwtTTL = 7 * 24 * time.Hour
	}
	if h.uploadsDir == "" {
		h.uploadsDir = "uploads"
	}
	return h
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// location resolves the calendar used for week boundaries: the tz query
// parameter when given, the configured default otherwise.
func (h *Handler) location(c *fiber.Ctx) (*time.Location, error) {
	tz := c.Query("tz")
	if tz == "" {
		return h.loc, nil
	}
	return time.LoadLocation(tz)
}

// summarize re-reads the owner's activities and derives everything from that
// snapshot.
func (h *Handler) summarize(ctx context.Context, ownerID uuid.UUID, loc *time.Location) (selfcare.Summary, error) {
	activities, err := h.activities.ListByOwner(ctx, ownerID)
	if err != nil {
		return selfcare.Summary{}, err
	}
	return selfcare.Summarize(activities, h.now().In(loc)), nil
}

func summaryResponse(s selfcare.Summary) models.SummaryResponse {
	return models.SummaryResponse{
		WeeklyHours:        s.WeeklyHours,
		WeeklyHoursDisplay: selfcare.FormatHours(s.WeeklyHours),
		WeekStart:          s.WeekStart,
		CompletedCount:     len(s.Completed),
		IncompleteCount:    len(s.Incomplete),
		ByType:             s.ByType,
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

// storeFailure reports a store error the client may retry.
func (h *Handler) storeFailure(c *fiber.Ctx, msg string, err error) error {
	h.log.Error(msg, zap.Error(err), zap.Stringer("userId", middleware.GetUserID(c)))
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": msg})
}
