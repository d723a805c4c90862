package cancellation

import (
	"context"

	"github.com/estodobien/ActiveGo/models"
)

// CancellationService executes a booking cancellation as one logical unit of
// work: policy evaluation, inventory restoration, status transition and
// outbound notification. The returned order reflects the committed state.
type CancellationService interface {
	CancelByClient(ctx context.Context, orderID, userID string) (*models.Order, error)
	CancelByProvider(ctx context.Context, orderID, providerID, reason string) (*models.Order, error)
	CancelByAdmin(ctx context.Context, orderID, reason string) (*models.Order, error)
}
