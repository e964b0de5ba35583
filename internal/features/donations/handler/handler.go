package handler

import (
	"net/http"
	"time"

	"alertcast/internal/core/logger"
	"alertcast/internal/features/donations/domain"
	"alertcast/internal/features/donations/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DonationHandler handles HTTP requests for the donation pipeline.
type DonationHandler struct {
	service ports.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(service ports.DonationService) *DonationHandler {
	return &DonationHandler{
		service: service,
	}
}

// CreateDonationRequest represents the request body for creating a donation.
type CreateDonationRequest struct {
	DonorName      string  `json:"donorName"`
	Amount         float64 `json:"amount"`
	Message        string  `json:"message"`
	PaymentMethod  string  `json:"paymentMethod"`
	PlisioCurrency string  `json:"plisioCurrency"`
	MediaURL       string  `json:"mediaUrl"`
	MediaType      string  `json:"mediaType"`
	StartTime      float64 `json:"startTime"`
}

// PaymentCallbackRequest represents the payment provider callback body.
type PaymentCallbackRequest struct {
	OrderID string `json:"order_number"`
	Status  string `json:"status"`
}

// VisibilityRequest represents the request body for toggling alert visibility.
type VisibilityRequest struct {
	ID      string `json:"id"`
	Visible *bool  `json:"visible"`
}

// TimerRequest represents the request body for the countdown-timer overlay.
type TimerRequest struct {
	TargetTime string `json:"targetTime"`
}

// CreateDonation handles POST /donate.
// @Summary Create a donation
// @Description Registers a pending donation awaiting payment confirmation.
// @Tags Donations
// @Accept json
// @Produce json
// @Param donation body CreateDonationRequest true "Donation details"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /donate [post]
func (h *DonationHandler) CreateDonation(c *fiber.Ctx) error {
	var req CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	donation, err := h.service.Create(c.Context(), ports.CreateDonationInput{
		DonorName:      req.DonorName,
		Amount:         req.Amount,
		Message:        req.Message,
		PaymentMethod:  req.PaymentMethod,
		PlisioCurrency: req.PlisioCurrency,
		MediaURL:       req.MediaURL,
		MediaType:      req.MediaType,
		StartTime:      req.StartTime,
	})
	if err != nil {
		if err == domain.ErrInvalidAmount {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount must be a positive number",
			})
		}
		logger.Get().Error("Failed to create donation", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"orderId": donation.ID,
		"status":  string(donation.Status),
	})
}

// PaymentCallback handles POST /payment/callback.
// @Summary Payment provider callback
// @Description Resolves a pending donation; a completed payment dispatches the alert.
// @Tags Donations
// @Accept json
// @Produce json
// @Param callback body PaymentCallbackRequest true "Callback details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /payment/callback [post]
func (h *DonationHandler) PaymentCallback(c *fiber.Ctx) error {
	var req PaymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	paid := req.Status == "completed" || req.Status == "paid"
	donation, err := h.service.ConfirmPayment(c.Context(), req.OrderID, paid)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown order",
			})
		}
		logger.Get().Error("Failed to confirm payment", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"orderId": donation.ID,
		"status":  string(donation.Status),
	})
}

// GetState handles GET /state.
// @Summary Get server state
// @Description Returns the server time the overlay syncs against on load.
// @Tags State
// @Produce json
// @Success 200 {object} map[string]string
// @Router /state [get]
func (h *DonationHandler) GetState(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"serverTime": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetHistory handles GET /admin/history.
// @Summary Get donation history
// @Description Returns the most recent paid donations, newest first.
// @Tags Admin
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {array} domain.Donation
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /admin/history [get]
func (h *DonationHandler) GetHistory(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 0))

	donations, err := h.service.History(c.Context(), limit)
	if err != nil {
		logger.Get().Error("Failed to get history", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(donations)
}

// ClearQueue handles POST /admin/clear-queue.
// @Summary Clear the overlay
// @Description Broadcasts the operator override that resets the overlay.
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/clear-queue [post]
func (h *DonationHandler) ClearQueue(c *fiber.Ctx) error {
	h.service.ClearQueue()
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Queue cleared",
	})
}

// SetVisibility handles POST /admin/visibility.
// @Summary Pause or resume an alert
// @Description Toggles visibility of the alert with the given id.
// @Tags Admin
// @Accept json
// @Produce json
// @Param visibility body VisibilityRequest true "Visibility toggle"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/visibility [post]
func (h *DonationHandler) SetVisibility(c *fiber.Ctx) error {
	var req VisibilityRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" || req.Visible == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "id and visible are required",
		})
	}

	h.service.SetVisibility(req.ID, *req.Visible)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Visibility updated",
	})
}

// SetTimer handles POST /admin/timer.
// @Summary Set the countdown timer
// @Description Broadcasts the countdown-timer overlay target time.
// @Tags Admin
// @Accept json
// @Produce json
// @Param timer body TimerRequest true "Timer target"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/timer [post]
func (h *DonationHandler) SetTimer(c *fiber.Ctx) error {
	var req TimerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	target, err := time.Parse(time.RFC3339, req.TargetTime)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "targetTime must be an RFC3339 datetime",
		})
	}

	h.service.BroadcastTimer(target)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Timer set",
	})
}

// TestAlert handles POST /admin/test-alert.
// @Summary Fire a test alert
// @Description Creates and immediately dispatches a donation, bypassing payment.
// @Tags Admin
// @Accept json
// @Produce json
// @Param donation body CreateDonationRequest true "Test donation details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /admin/test-alert [post]
func (h *DonationHandler) TestAlert(c *fiber.Ctx) error {
	var req CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	donation, err := h.service.Create(c.Context(), ports.CreateDonationInput{
		DonorName:     req.DonorName,
		Amount:        req.Amount,
		Message:       req.Message,
		PaymentMethod: "test",
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		StartTime:     req.StartTime,
	})
	if err != nil {
		if err == domain.ErrInvalidAmount {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount must be a positive number",
			})
		}
		logger.Get().Error("Failed to create test alert", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if _, err := h.service.ConfirmPayment(c.Context(), donation.ID, true); err != nil {
		logger.Get().Error("Failed to dispatch test alert", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"orderId": donation.ID,
		"status":  string(domain.StatusPaid),
	})
}
