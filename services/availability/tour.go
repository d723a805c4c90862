package availability

import "github.com/estodobien/ActiveGo/models"

// SeatsRemaining reports how many seats a scheduled date still offers. Each
// date is an independent capacity pool; there is no range logic.
func SeatsRemaining(d models.ScheduledDate) int {
	remaining := d.Capacity - d.Booked
	if remaining < 0 {
		return 0
	}
	return remaining
}
