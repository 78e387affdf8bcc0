package handlers

import (
	"errors"
	"strings"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}
	if !strings.Contains(req.Email, "@") {
		return badRequest(c, "Invalid email")
	}
	if len(req.Password) < minPasswordLength {
		return badRequest(c, "Password must be at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
	}
	if err := h.users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return h.storeFailure(c, "Failed to create user", err)
	}

	return h.issueToken(c, fiber.StatusCreated, user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidCredentials(c)
		}
		return h.storeFailure(c, "Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return invalidCredentials(c)
	}

	return h.issueToken(c, fiber.StatusOK, *user)
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return notFound(c, "User not found")
	}
	return c.JSON(user)
}

func (h *Handler) issueToken(c *fiber.Ctx, status int, user models.User) error {
	token, err := middleware.GenerateToken(h.jwtSecret, h.jwtTTL, user.ID, user.Email)
	if err != nil {
		h.log.Error("generate token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}
	return c.Status(status).JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid credentials",
	})
}
