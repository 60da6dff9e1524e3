package handlers

import (
	"net/http"
	"strconv"

	"fundilink/models"
	"fundilink/services/booking"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes store-initiated booking creation and lookups.
type BookingHandler struct {
	BookingService booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings: the client already picked a
// fundi, so no shortlist round-trip happens.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload", err.Error())
		return
	}

	b, err := h.BookingService.CreateDirect(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListClientBookingsHandler handles GET /api/bookings/client/:phone.
func (h *BookingHandler) ListClientBookingsHandler(c *gin.Context) {
	phone := c.Param("phone")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	result, err := h.BookingService.ListByClientPhone(phone, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result, "count": len(result)})
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.BookingService.Cancel(id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
