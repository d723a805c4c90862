// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estodobien/ActiveGo/config"
	"github.com/estodobien/ActiveGo/cron"
	"github.com/estodobien/ActiveGo/database"
	offeringRepo "github.com/estodobien/ActiveGo/database/repository/offering"
	orderRepo "github.com/estodobien/ActiveGo/database/repository/order"
	profileRepo "github.com/estodobien/ActiveGo/database/repository/profile"
	scheduleRepo "github.com/estodobien/ActiveGo/database/repository/schedule"
	"github.com/estodobien/ActiveGo/handlers"
	"github.com/estodobien/ActiveGo/middleware"
	"github.com/estodobien/ActiveGo/routes"
	"github.com/estodobien/ActiveGo/services/availability"
	"github.com/estodobien/ActiveGo/services/cancellation"
	"github.com/estodobien/ActiveGo/services/notification"
	"github.com/estodobien/ActiveGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	orders := orderRepo.NewMongoOrderRepo()
	offerings := offeringRepo.NewMongoOfferingRepo()
	schedule := scheduleRepo.NewMongoScheduleRepo()
	profiles := profileRepo.NewMongoProfileRepo()

	// services.
	availabilityService := &availability.Service{
		Offerings: offerings,
		Schedule:  schedule,
		Cache:     utils.GetCacheClient(),
		Logger:    logger,
	}

	notifier := notification.NewAsynqNotificationService(logger)

	cancellationService := &cancellation.DefaultCancellationService{
		Orders:       orders,
		Schedule:     schedule,
		Availability: availabilityService,
		Notifier:     notifier,
		Logger:       logger,
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(cancellationService, orders, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, offerings, logger)
	offeringHandler := handlers.NewOfferingHandler(availabilityService, logger)
	adminHandler := handlers.NewAdminHandler(cancellationService, bookingHandler, logger)

	routes.RegisterRoutes(router, bookingHandler, availabilityHandler, offeringHandler, adminHandler)

	// Background cancellation notification worker.
	cron.InitNotifyWorker(cron.NotifyWorkerDeps{
		Orders:    orders,
		Profiles:  profiles,
		Offerings: offerings,
		Mailer:    &notification.SMTPMailer{},
	})

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
