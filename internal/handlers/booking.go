package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/booking"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (models.BookingResponse, error)
}

type BookingHandler struct {
	service     BookingCreator
	serviceName string
}

func NewBookingHandler(service BookingCreator, serviceName string) *BookingHandler {
	return &BookingHandler{
		service:     service,
		serviceName: serviceName,
	}
}

// HealthCheck returns server status
func (h *BookingHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": h.serviceName})
}

// CreateBooking handles POST /api/v1/booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Once started, a booking runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	resp, err := h.service.CreateBooking(ctx, req)
	if err != nil {
		status := statusFor(err)
		logger := log.Ctx(ctx)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Int("status", status).Msg("Booking failed")
		} else {
			logger.Info().Err(err).Int("status", status).Msg("Booking rejected")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrInsufficientInventory):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInventoryUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, booking.ErrPublishFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
