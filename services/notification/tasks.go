package notification

import (
	"encoding/json"

	"github.com/estodobien/ActiveGo/models"

	"github.com/hibiken/asynq"
)

const TypeBookingCancelled = "booking:cancelled"

// NewCancelledTask builds the queued task for a booking-cancelled event.
func NewCancelledTask(payload models.CancelledPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingCancelled, b), nil
}
