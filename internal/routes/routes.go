package routes

import (
	"net/http"

	"github.com/andrifirman/camilanku-golang/internal/config"
	"github.com/andrifirman/camilanku-golang/internal/handlers"
	"github.com/andrifirman/camilanku-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront origin to call the API with
// credentials, and answers preflight OPTIONS requests with 204.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, cfg config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(CORSMiddleware(cfg.CORSOrigin))

	secret := []byte(cfg.JWTSecret)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Public Routes ---
		v1.POST("/shipping/quote", h.ShippingQuote)

		// Checkout works for guests too; a bearer token, when present,
		// attaches the order to the account.
		v1.POST("/orders", middleware.OptionalAuth(h.DB, secret), h.CreateOrder)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.Auth(h.DB, secret))
		{
			auth.GET("/orders/my", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)
			auth.POST("/orders/:id/tracking/refresh", h.RefreshOrderTracking)

			// --- Notification Center ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(h.DB, secret))
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/orders", h.GetAllOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
			admin.PUT("/orders/:id/tracking", h.UpdateOrderTracking)
		}
	}

	return router
}
