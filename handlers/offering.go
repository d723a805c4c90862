package handlers

import (
	"errors"
	"net/http"

	"github.com/estodobien/ActiveGo/models"
	"github.com/estodobien/ActiveGo/services/availability"
	"github.com/estodobien/ActiveGo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OfferingHandler serves provider-side schedule management: scheduled dates
// for tour-like offerings and unavailability windows for rentals.
type OfferingHandler struct {
	Availability *availability.Service
	Logger       *zap.Logger
}

// NewOfferingHandler constructs an OfferingHandler.
func NewOfferingHandler(svc *availability.Service, logger *zap.Logger) *OfferingHandler {
	return &OfferingHandler{Availability: svc, Logger: logger}
}

type createDateInput struct {
	Date          string   `json:"date" binding:"required"`
	Capacity      int      `json:"capacity" binding:"required"`
	PriceOverride *float64 `json:"price_override"`
}

// CreateDateHandler adds a fixed-capacity scheduled date.
func (h *OfferingHandler) CreateDateHandler(c *gin.Context) {
	offeringID := c.Param("id")
	providerID := c.GetString("actorID")

	var input createDateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	d := &models.ScheduledDate{
		OfferingID:    offeringID,
		Date:          input.Date,
		Capacity:      input.Capacity,
		PriceOverride: input.PriceOverride,
	}
	if err := h.Availability.AddScheduledDate(c.Request.Context(), providerID, d); err != nil {
		if errors.Is(err, availability.ErrInvalidDateRange) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date", err.Error())
			return
		}
		h.Logger.Error("failed to create scheduled date", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusUnprocessableEntity, "Could not create scheduled date", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": d})
}

// DeleteDateHandler removes a scheduled date; dates with consumed seats are
// rejected.
func (h *OfferingHandler) DeleteDateHandler(c *gin.Context) {
	offeringID := c.Param("id")
	dateID := c.Param("dateID")
	providerID := c.GetString("actorID")

	err := h.Availability.RemoveScheduledDate(c.Request.Context(), providerID, offeringID, dateID)
	if err != nil {
		if errors.Is(err, availability.ErrDateHasBookings) {
			c.JSON(http.StatusConflict, gin.H{"error": "Scheduled date still has bookings", "status": "date_has_bookings"})
			return
		}
		h.Logger.Error("failed to delete scheduled date", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusUnprocessableEntity, "Could not delete scheduled date", "")
		return
	}
	c.Status(http.StatusNoContent)
}

type createWindowInput struct {
	DateFrom     string `json:"date_from" binding:"required"`
	DateTo       string `json:"date_to" binding:"required"`
	BlockedUnits *int   `json:"blocked_units"`
	Reason       string `json:"reason"`
}

// CreateWindowHandler declares a manual unavailability window.
func (h *OfferingHandler) CreateWindowHandler(c *gin.Context) {
	offeringID := c.Param("id")
	providerID := c.GetString("actorID")

	var input createWindowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	w := &models.UnavailabilityWindow{
		OfferingID:   offeringID,
		DateFrom:     input.DateFrom,
		DateTo:       input.DateTo,
		BlockedUnits: input.BlockedUnits,
		Reason:       input.Reason,
	}
	if err := h.Availability.AddWindow(c.Request.Context(), providerID, w); err != nil {
		if errors.Is(err, availability.ErrInvalidDateRange) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		h.Logger.Error("failed to create unavailability window", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusUnprocessableEntity, "Could not create unavailability window", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": w})
}

// DeleteWindowHandler removes an unavailability window.
func (h *OfferingHandler) DeleteWindowHandler(c *gin.Context) {
	offeringID := c.Param("id")
	windowID := c.Param("windowID")
	providerID := c.GetString("actorID")

	if err := h.Availability.RemoveWindow(c.Request.Context(), providerID, offeringID, windowID); err != nil {
		h.Logger.Error("failed to delete unavailability window", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusUnprocessableEntity, "Could not delete unavailability window", "")
		return
	}
	c.Status(http.StatusNoContent)
}
