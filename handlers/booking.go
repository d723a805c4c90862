package handlers

import (
	"errors"
	"net/http"

	orderRepo "github.com/estodobien/ActiveGo/database/repository/order"
	"github.com/estodobien/ActiveGo/services/cancellation"
	"github.com/estodobien/ActiveGo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves booking reads and the cancellation endpoints.
type BookingHandler struct {
	Cancellation cancellation.CancellationService
	Orders       orderRepo.OrderRepository
	Logger       *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc cancellation.CancellationService, orders orderRepo.OrderRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Cancellation: svc, Orders: orders, Logger: logger}
}

// CancelByClientHandler lets a client cancel their own booking.
func (h *BookingHandler) CancelByClientHandler(c *gin.Context) {
	orderID := c.Param("id")
	userID := c.GetString("actorID")

	order, err := h.Cancellation.CancelByClient(c.Request.Context(), orderID, userID)
	if err != nil {
		h.respondCancellationError(c, orderID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

type providerCancelInput struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelByProviderHandler lets a provider cancel a booking on one of their
// offerings. A reason is mandatory.
func (h *BookingHandler) CancelByProviderHandler(c *gin.Context) {
	orderID := c.Param("id")
	providerID := c.GetString("actorID")

	var input providerCancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "A cancellation reason is required", err.Error())
		return
	}

	order, err := h.Cancellation.CancelByProvider(c.Request.Context(), orderID, providerID, input.Reason)
	if err != nil {
		h.respondCancellationError(c, orderID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// GetBookingHandler returns a booking to one of its parties.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	orderID := c.Param("id")
	actorID := c.GetString("actorID")
	role := c.GetString("actorRole")

	order, err := h.Orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		h.Logger.Error("failed to fetch booking", zap.String("orderID", orderID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch booking", "")
		return
	}
	if order.UserID != actorID && order.ProviderID != actorID && role != "admin" {
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// ListBookingsHandler returns the actor's bookings: the client's own orders
// or, for providers, the orders on their offerings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	actorID := c.GetString("actorID")
	role := c.GetString("actorRole")

	var err error
	var orders interface{}
	if role == "provider" {
		orders, err = h.Orders.ListByProvider(c.Request.Context(), actorID)
	} else {
		orders, err = h.Orders.ListByUser(c.Request.Context(), actorID)
	}
	if err != nil {
		h.Logger.Error("failed to list bookings", zap.String("actorID", actorID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not list bookings", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// respondCancellationError maps orchestrator errors onto the HTTP surface.
// Policy denials carry their user-facing message; infrastructure failures
// surface a generic retry message with details kept in the logs.
func (h *BookingHandler) respondCancellationError(c *gin.Context, orderID string, err error) {
	var denied *cancellation.PolicyDeniedError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusConflict, gin.H{
			"error":  denied.Result.Message,
			"status": denied.Result.Status,
		})
	case errors.Is(err, cancellation.ErrNotOwner):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, orderRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
	default:
		h.Logger.Error("cancellation failed", zap.String("orderID", orderID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Could not cancel booking. Please try again later.", "")
	}
}
