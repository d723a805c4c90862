package handlers

import (
	"net/http"

	"github.com/estodobien/ActiveGo/services/cancellation"
	"github.com/estodobien/ActiveGo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves privileged booking operations.
type AdminHandler struct {
	Cancellation cancellation.CancellationService
	Bookings     *BookingHandler
	Logger       *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc cancellation.CancellationService, bookings *BookingHandler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Cancellation: svc, Bookings: bookings, Logger: logger}
}

type adminCancelInput struct {
	ReasonText string `json:"reason_text" binding:"required"`
}

// CancelBookingHandler cancels a booking on behalf of the platform. The
// policy grants admins a full-refund cancellation regardless of timing.
func (h *AdminHandler) CancelBookingHandler(c *gin.Context) {
	orderID := c.Param("id")

	var input adminCancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing params", err.Error())
		return
	}

	order, err := h.Cancellation.CancelByAdmin(c.Request.Context(), orderID, input.ReasonText)
	if err != nil {
		h.Bookings.respondCancellationError(c, orderID, err)
		return
	}
	h.Logger.Info("admin cancelled booking",
		zap.String("orderID", orderID),
		zap.String("reason", input.ReasonText))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}
