package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"zenflow/handlers"
	"zenflow/middleware"
	"zenflow/utils"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Catalog *handlers.CatalogHandler
	Cart    *handlers.CartHandler
	Booking *handlers.BookingHandler
}

// RegisterRoutes wires up all endpoints.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", utils.SessionHeader},
		ExposeHeaders:    []string{utils.SessionHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware())
	{
		api.GET("/classes", hb.Catalog.ListClasses)
		api.GET("/classes/:id", hb.Catalog.GetClass)
		api.POST("/catalog/refresh", hb.Catalog.Refresh)

		api.GET("/cart", hb.Cart.GetCart)
		api.POST("/cart/items", hb.Cart.AddItem)
		api.DELETE("/cart/items/:id", hb.Cart.RemoveItem)
		api.DELETE("/cart", hb.Cart.ClearCart)

		api.POST("/checkout", hb.Booking.Checkout)
		api.GET("/checkout/email", hb.Booking.SavedEmail)
		api.GET("/bookings", hb.Booking.MyBookings)
	}
}
