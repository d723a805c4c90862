package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	offeringRepo "github.com/estodobien/ActiveGo/database/repository/offering"
	scheduleRepo "github.com/estodobien/ActiveGo/database/repository/schedule"
	"github.com/estodobien/ActiveGo/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const calendarCacheTTL = 60 * time.Second

// Service loads availability snapshots from the schedule repository, with a
// short-lived redis cache in front of the rental calendar reads.
type Service struct {
	Offerings offeringRepo.OfferingRepository
	Schedule  scheduleRepo.ScheduleRepository
	Cache     *redis.Client
	Logger    *zap.Logger
}

type calendarSnapshot struct {
	Windows []models.UnavailabilityWindow `json:"windows"`
	Days    []models.DayBooking           `json:"days"`
}

func calendarCacheKey(offeringID, from, to string) string {
	return fmt.Sprintf("availability:%s:%s:%s", offeringID, from, to)
}

// LoadRentalCalendar assembles the rental availability calendar for an
// offering over [from, to].
func (s *Service) LoadRentalCalendar(ctx context.Context, offeringID, from, to string) (*RentalCalendar, error) {
	if _, err := ParseDay(from); err != nil {
		return nil, err
	}
	if _, err := ParseDay(to); err != nil {
		return nil, err
	}

	offering, err := s.Offerings.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !offering.IsRental() {
		return nil, fmt.Errorf("offering %s is not rental-type", offeringID)
	}

	key := calendarCacheKey(offeringID, from, to)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var snap calendarSnapshot
			if err := json.Unmarshal([]byte(cached), &snap); err == nil {
				return NewRentalCalendar(*offering, snap.Windows, snap.Days), nil
			}
		}
	}

	windows, err := s.Schedule.GetWindows(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	days, err := s.Schedule.GetDayBookings(ctx, offeringID, from, to)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		snap := calendarSnapshot{Windows: windows, Days: days}
		if data, err := json.Marshal(snap); err == nil {
			if err := s.Cache.Set(ctx, key, data, calendarCacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache availability calendar",
					zap.String("offeringID", offeringID), zap.Error(err))
			}
		}
	}

	return NewRentalCalendar(*offering, windows, days), nil
}

// InvalidateCalendar drops cached calendars for the offering, called after
// inventory restoration so freed units become visible immediately.
func (s *Service) InvalidateCalendar(ctx context.Context, offeringID string) {
	if s.Cache == nil {
		return
	}
	// SCAN instead of KEYS; the pattern match must not block redis.
	var keys []string
	iter := s.Cache.Scan(ctx, 0, fmt.Sprintf("availability:%s:*", offeringID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.Logger.Warn("failed to scan availability cache keys",
			zap.String("offeringID", offeringID), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
		s.Logger.Warn("failed to invalidate availability cache",
			zap.String("offeringID", offeringID), zap.Error(err))
	}
}

// SeatsForDate reports remaining seats for a tour-mode scheduled date.
// Unknown dates report 0 seats.
func (s *Service) SeatsForDate(ctx context.Context, offeringID, date string) (int, error) {
	if _, err := ParseDay(date); err != nil {
		return 0, err
	}
	d, err := s.Schedule.GetDate(ctx, offeringID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return SeatsRemaining(*d), nil
}

// AddScheduledDate creates a new fixed-capacity date for a tour-like
// offering owned by the given provider.
func (s *Service) AddScheduledDate(ctx context.Context, providerID string, d *models.ScheduledDate) error {
	if _, err := ParseDay(d.Date); err != nil {
		return err
	}
	offering, err := s.Offerings.GetByID(ctx, d.OfferingID)
	if err != nil {
		return err
	}
	if offering.ProviderID != providerID {
		return fmt.Errorf("offering %s is not owned by provider %s", d.OfferingID, providerID)
	}
	if offering.IsRental() {
		return fmt.Errorf("rental offerings do not schedule dates")
	}
	return s.Schedule.CreateDate(ctx, d)
}

// RemoveScheduledDate deletes a scheduled date; dates with consumed seats
// are rejected.
func (s *Service) RemoveScheduledDate(ctx context.Context, providerID, offeringID, dateID string) error {
	offering, err := s.Offerings.GetByID(ctx, offeringID)
	if err != nil {
		return err
	}
	if offering.ProviderID != providerID {
		return fmt.Errorf("offering %s is not owned by provider %s", offeringID, providerID)
	}
	if err := s.Schedule.DeleteDate(ctx, offeringID, dateID); err != nil {
		if errors.Is(err, scheduleRepo.ErrDateHasBookings) {
			return ErrDateHasBookings
		}
		return err
	}
	return nil
}

// AddWindow declares a manual unavailability window for a rental offering.
// Partial blocks must fit the offering's unit pool; overlapping windows are
// allowed and resolve most-restrictive at read time.
func (s *Service) AddWindow(ctx context.Context, providerID string, w *models.UnavailabilityWindow) error {
	fromDay, err := ParseDay(w.DateFrom)
	if err != nil {
		return err
	}
	toDay, err := ParseDay(w.DateTo)
	if err != nil {
		return err
	}
	if toDay.Before(fromDay) {
		return fmt.Errorf("%w: %q..%q", ErrInvalidDateRange, w.DateFrom, w.DateTo)
	}

	offering, err := s.Offerings.GetByID(ctx, w.OfferingID)
	if err != nil {
		return err
	}
	if offering.ProviderID != providerID {
		return fmt.Errorf("offering %s is not owned by provider %s", w.OfferingID, providerID)
	}
	if !offering.IsRental() {
		return fmt.Errorf("offering %s is not rental-type", w.OfferingID)
	}
	if w.BlockedUnits != nil && (*w.BlockedUnits <= 0 || *w.BlockedUnits > offering.TotalUnits) {
		return fmt.Errorf("blocked units %d out of range 1..%d", *w.BlockedUnits, offering.TotalUnits)
	}

	if err := s.Schedule.CreateWindow(ctx, w); err != nil {
		return err
	}
	s.InvalidateCalendar(ctx, w.OfferingID)
	return nil
}

// RemoveWindow deletes an unavailability window.
func (s *Service) RemoveWindow(ctx context.Context, providerID, offeringID, windowID string) error {
	offering, err := s.Offerings.GetByID(ctx, offeringID)
	if err != nil {
		return err
	}
	if offering.ProviderID != providerID {
		return fmt.Errorf("offering %s is not owned by provider %s", offeringID, providerID)
	}
	if err := s.Schedule.DeleteWindow(ctx, offeringID, windowID); err != nil {
		return err
	}
	s.InvalidateCalendar(ctx, offeringID)
	return nil
}
