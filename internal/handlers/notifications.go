package handlers

import (
	"errors"
	"strings"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
)

// RegisterDeviceToken saves the FCM token for push notifications
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return badRequest(c, "Token is required")
	}

	if err := h.users.SetDeviceToken(c.UserContext(), userID, strings.TrimSpace(req.Token)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User not found")
		}
		return h.storeFailure(c, "Failed to save device token", err)
	}

	return c.JSON(fiber.Map{"success": true})
}
