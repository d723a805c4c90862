package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/estodobien/ActiveGo/config"
	offeringRepo "github.com/estodobien/ActiveGo/database/repository/offering"
	orderRepo "github.com/estodobien/ActiveGo/database/repository/order"
	profileRepo "github.com/estodobien/ActiveGo/database/repository/profile"
	"github.com/estodobien/ActiveGo/models"
	"github.com/estodobien/ActiveGo/services/notification"

	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
)

// NotifyWorkerDeps are the collaborators the cancellation fan-out needs.
type NotifyWorkerDeps struct {
	Orders    orderRepo.OrderRepository
	Profiles  profileRepo.ProfileRepository
	Offerings offeringRepo.OfferingRepository
	Mailer    notification.Mailer
}

// InitNotifyWorker runs the async worker in background.
func InitNotifyWorker(deps NotifyWorkerDeps) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingCancelled, handleCancelledTask(deps))

	go func() {
		log.Println("[NotifyWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleCancelledTask(deps NotifyWorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.CancelledPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyWorker] invalid payload: %v", err)
			return err
		}

		orders, err := deps.Orders.GetByIDs(ctx, p.OrderIDs)
		if err != nil {
			return fmt.Errorf("failed to load orders for notification: %w", err)
		}
		if len(orders) == 0 {
			log.Printf("[NotifyWorker] no orders found for %v", p.OrderIDs)
			return nil
		}

		profileIDs := make([]string, 0, len(orders)*2)
		offeringIDs := make([]string, 0, len(orders))
		for _, o := range orders {
			profileIDs = append(profileIDs, o.UserID, o.ProviderID)
			offeringIDs = append(offeringIDs, o.OfferingID)
		}
		profiles, err := deps.Profiles.GetByIDs(ctx, profileIDs)
		if err != nil {
			return fmt.Errorf("failed to load profiles for notification: %w", err)
		}
		titles, err := deps.Offerings.GetTitles(ctx, offeringIDs)
		if err != nil {
			return fmt.Errorf("failed to load offering titles: %w", err)
		}

		label := cancelLabel(p.Event)
		for _, order := range orders {
			body := cancellationBody(order, titles[order.OfferingID], label)
			subject := fmt.Sprintf("%s: booking %s", label, order.ID)

			if client, ok := profiles[order.UserID]; ok && client.Email != "" {
				if err := deps.Mailer.Send(ctx, client.Email, subject, body); err != nil {
					log.Printf("[NotifyWorker] client mail failed for order %s: %v", order.ID, err)
				}
			}
			if provider, ok := profiles[order.ProviderID]; ok && provider.Email != "" {
				if err := deps.Mailer.Send(ctx, provider.Email, subject, body); err != nil {
					log.Printf("[NotifyWorker] provider mail failed for order %s: %v", order.ID, err)
				}
			}
			if admin := config.AppConfig.AdminEmail; admin != "" {
				if err := deps.Mailer.Send(ctx, admin, subject, body); err != nil {
					log.Printf("[NotifyWorker] admin mail failed for order %s: %v", order.ID, err)
				}
			}

			triggerRefund(order)
		}
		return nil
	}
}

func cancelLabel(event string) string {
	switch event {
	case models.EventCancelledByClient:
		return "Cancelled by client"
	case models.EventCancelledByProvider:
		return "Cancelled by provider"
	case models.EventCancelledByAdmin:
		return "Cancelled by administration"
	}
	return "Cancelled"
}

func formatDates(order models.Order) string {
	if order.BookingDate != "" {
		return order.BookingDate
	}
	return fmt.Sprintf("%s → %s", order.BookingDateFrom, order.BookingDateTo)
}

func cancellationBody(order models.Order, title, label string) string {
	if title == "" {
		title = order.OfferingID
	}
	return fmt.Sprintf(
		"%s\n\nService: %s\nDates: %s\nQuantity: %d\nTotal: %.2f\n\nIf you have any questions, just reply to this email.",
		label, title, formatDates(order), order.Quantity, order.TotalPrice,
	)
}

// triggerRefund asks the payment processor to refund the order. Execution
// semantics (timing, partial capture, disputes) belong to the processor;
// failures are logged for operational follow-up only.
func triggerRefund(order models.Order) {
	if order.PaymentIntentID == "" || config.AppConfig.StripeKey == "" {
		return
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentIntentID),
	}
	if _, err := refund.New(params); err != nil {
		log.Printf("[NotifyWorker] refund trigger failed for order %s: %v", order.ID, err)
		return
	}
	log.Printf("[NotifyWorker] refund requested for order %s", order.ID)
}
