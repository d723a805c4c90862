package notification

import (
	"context"
	"fmt"

	"github.com/estodobien/ActiveGo/config"
	"github.com/estodobien/ActiveGo/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqNotificationService queues cancellation notifications onto the redis
// notify queue; the worker in cron delivers them.
type AsynqNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqNotificationService builds the production notifier.
func NewAsynqNotificationService(logger *zap.Logger) *AsynqNotificationService {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	return &AsynqNotificationService{Client: client, Logger: logger}
}

func (s *AsynqNotificationService) NotifyBookingCancelled(ctx context.Context, event string, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return fmt.Errorf("no order ids to notify")
	}
	task, err := NewCancelledTask(models.CancelledPayload{Event: event, OrderIDs: orderIDs})
	if err != nil {
		return fmt.Errorf("failed to build cancellation task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue cancellation task: %w", err)
	}
	s.Logger.Info("queued cancellation notification",
		zap.String("event", event),
		zap.Strings("orderIDs", orderIDs),
		zap.String("taskID", info.ID))
	return nil
}
