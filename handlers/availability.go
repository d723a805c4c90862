package handlers

import (
	"errors"
	"net/http"

	offeringRepo "github.com/estodobien/ActiveGo/database/repository/offering"
	"github.com/estodobien/ActiveGo/services/availability"
	"github.com/estodobien/ActiveGo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves availability queries for both offering modes.
type AvailabilityHandler struct {
	Availability *availability.Service
	Offerings    offeringRepo.OfferingRepository
	Logger       *zap.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc *availability.Service, offerings offeringRepo.OfferingRepository, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: svc, Offerings: offerings, Logger: logger}
}

type dayAvailability struct {
	Date           string `json:"date"`
	AvailableUnits int    `json:"available_units"`
}

// GetAvailabilityHandler answers availability for an offering. Rental
// offerings take ?from=&to= and get a per-day breakdown plus the range
// maximum; tour-like offerings take ?date= and get remaining seats.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	offeringID := c.Param("id")

	offering, err := h.Offerings.GetByID(c.Request.Context(), offeringID)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Offering not found", "")
			return
		}
		h.Logger.Error("failed to fetch offering", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch offering", "")
		return
	}

	if offering.IsRental() {
		h.rentalAvailability(c, offeringID)
		return
	}
	h.tourAvailability(c, offeringID)
}

func (h *AvailabilityHandler) rentalAvailability(c *gin.Context, offeringID string) {
	from := c.Query("from")
	to := c.Query("to")

	cal, err := h.Availability.LoadRentalCalendar(c.Request.Context(), offeringID, from, to)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDateRange) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		h.Logger.Error("failed to load rental calendar", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load availability", "")
		return
	}

	days, err := cal.RentalDays(from, to)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
		return
	}
	maxAvailable, err := cal.MaxAvailableForRange(from, to)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
		return
	}

	var breakdown []dayAvailability
	start, _ := availability.ParseDay(from)
	end, _ := availability.ParseDay(to)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		units, err := cal.AvailableUnits(day)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		breakdown = append(breakdown, dayAvailability{Date: day, AvailableUnits: units})
	}

	c.JSON(http.StatusOK, gin.H{
		"days":          breakdown,
		"rental_days":   days,
		"max_available": maxAvailable,
	})
}

func (h *AvailabilityHandler) tourAvailability(c *gin.Context, offeringID string) {
	date := c.Query("date")
	seats, err := h.Availability.SeatsForDate(c.Request.Context(), offeringID, date)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDateRange) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date", err.Error())
			return
		}
		h.Logger.Error("failed to load tour availability", zap.String("offeringID", offeringID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load availability", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "available_seats": seats})
}
