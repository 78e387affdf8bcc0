package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadProfileImage stores the user's avatar and records its URL.
func (h *Handler) UploadProfileImage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "No image file provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return badRequest(c, "Only jpg, png, and webp images are allowed")
	}
	if file.Size > maxImageSize {
		return badRequest(c, "Image must be under 5MB")
	}

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		h.log.Error("create uploads dir", zap.String("dir", h.uploadsDir), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create uploads directory",
		})
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(h.uploadsDir, filename)); err != nil {
		h.log.Error("save upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save image",
		})
	}

	imageURL := "/uploads/" + filename
	if err := h.users.SetProfileImage(c.UserContext(), userID, imageURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User not found")
		}
		return h.storeFailure(c, "Failed to save profile image", err)
	}

	return c.JSON(fiber.Map{
		"url": imageURL,
	})
}
