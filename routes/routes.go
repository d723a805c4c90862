package routes

import (
	"net/http"
	"time"

	"github.com/estodobien/ActiveGo/handlers"
	"github.com/estodobien/ActiveGo/middleware"
	"github.com/estodobien/ActiveGo/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the engine.
func RegisterRoutes(
	r *gin.Engine,
	booking *handlers.BookingHandler,
	avail *handlers.AvailabilityHandler,
	offering *handlers.OfferingHandler,
	admin *handlers.AdminHandler,
) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public availability queries.
	r.GET("/api/offerings/:id/availability", avail.GetAvailabilityHandler)

	// Client bookings.
	client := r.Group("/api/bookings")
	client.Use(middleware.JWTAuthMiddleware(models.RoleClient))
	{
		client.GET("", booking.ListBookingsHandler)
		client.GET("/:id", booking.GetBookingHandler)
		client.PUT("/:id/cancel", booking.CancelByClientHandler)
	}

	// Provider bookings and schedule management.
	provider := r.Group("/api/provider")
	provider.Use(middleware.JWTAuthMiddleware(models.RoleProvider))
	{
		provider.GET("/bookings", booking.ListBookingsHandler)
		provider.GET("/bookings/:id", booking.GetBookingHandler)
		provider.PUT("/bookings/:id/cancel", booking.CancelByProviderHandler)

		provider.POST("/offerings/:id/dates", offering.CreateDateHandler)
		provider.DELETE("/offerings/:id/dates/:dateID", offering.DeleteDateHandler)
		provider.POST("/offerings/:id/windows", offering.CreateWindowHandler)
		provider.DELETE("/offerings/:id/windows/:windowID", offering.DeleteWindowHandler)
	}

	// Privileged admin operations.
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(models.RoleAdmin))
	{
		adminGroup.POST("/bookings/:id/cancel", admin.CancelBookingHandler)
	}
}
