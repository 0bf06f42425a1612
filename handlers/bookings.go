package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

// GetBooking retrieves a booking by id
func (h *Handler) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.recorder.Get(c.Request.Context(), bookingID)
	if err != nil {
		h.log.Warn("error getting booking", zap.String("booking_id", bookingID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// RetryConfirmation re-attempts confirmation delivery for a booking
func (h *Handler) RetryConfirmation(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.recorder.RetryConfirmation(c.Request.Context(), bookingID)
	if err != nil {
		var deliveryErr *services.ConfirmationDeliveryError
		if errors.As(err, &deliveryErr) {
			// The booking stands; only the notification failed again.
			c.JSON(http.StatusOK, models.BookingResponse{
				Success: false,
				Message: "Confirmation delivery failed again, the booking is unaffected",
				Booking: booking,
			})
			return
		}
		h.log.Warn("error retrying confirmation", zap.String("booking_id", bookingID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{
		Success: true,
		Message: "Confirmation delivered",
		Booking: booking,
	})
}
