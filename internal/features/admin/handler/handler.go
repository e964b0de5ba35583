package handler

import (
	"net/http"
	"strings"

	"alertcast/internal/core/logger"
	"alertcast/internal/features/admin/domain"
	"alertcast/internal/features/admin/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	service ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// LoginRequest represents the request body for admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
// @Summary Admin login
// @Description Validates operator credentials and returns a session token.
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Operator credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	token, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		logger.Get().Error("Failed to log in", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// Logout handles POST /admin/logout.
// @Summary Admin logout
// @Description Revokes the current session token.
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context(), bearerToken(c)); err != nil {
		logger.Get().Error("Failed to log out", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

// RequireAuth is the middleware protecting the admin surface.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	if err := h.service.Validate(c.Context(), bearerToken(c)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	return strings.TrimPrefix(auth, "Bearer ")
}
