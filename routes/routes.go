package routes

import (
	"net/http"
	"time"

	"fundilink/handlers"
	"fundilink/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle carries the assembled handlers for route registration.
type HandlerBundle struct {
	Webhook      *handlers.WebhookHandler
	Lead         *handlers.LeadHandler
	Booking      *handlers.BookingHandler
	Provider     *handlers.ProviderHandler
	User         *handlers.UserHandler
	Subscription *handlers.SubscriptionHandler
}

// RegisterWebhookRoutes registers the WhatsApp webhook. Deliberately outside
// the rate limiter and auth: the upstream channel signs nothing and must
// always get a 200.
func RegisterWebhookRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/webhook/whatsapp", hb.Webhook.VerifyHandler)
	r.POST("/webhook/whatsapp", hb.Webhook.ReceiveHandler)
}

// RegisterLeadRoutes registers lead endpoints.
func RegisterLeadRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/leads")
	{
		api.POST("", hb.Lead.CreateLeadHandler)

		// Fundis read their own leads.
		api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("fundi"))
		api.GET("/fundi/:id", hb.Lead.ListFundiLeadsHandler)
	}
}

// RegisterBookingRoutes registers booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("/client/:phone", hb.Booking.ListClientBookingsHandler)
		api.POST("/:id/cancel", hb.Booking.CancelBookingHandler)
	}
}

// RegisterFundiRoutes registers fundi account and search endpoints.
func RegisterFundiRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/fundis")
	{
		api.POST("/register", hb.Provider.RegisterProviderHandler)
		api.POST("/login", hb.Provider.LoginProviderHandler)
		api.GET("/search", hb.Provider.SearchProvidersHandler)
		api.GET("/:id", hb.Provider.GetProviderHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("fundi"))
		protected.PUT("/:id/fcm-token", hb.Provider.UpdateFCMTokenHandler)
	}
}

// RegisterUserRoutes registers client account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterUserHandler)
		api.POST("/login", hb.User.LoginUserHandler)

		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:id", hb.User.GetUserHandler)
	}
}

// RegisterSubscriptionRoutes registers plan and checkout endpoints plus the
// gateway callback.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/subscriptions")
	{
		api.GET("/plans", hb.Subscription.GetPlansHandler)
		// Gateway callback carries no bearer token.
		api.POST("/callback/mpesa", hb.Subscription.MpesaCallbackHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("fundi"))
		protected.POST("/checkout/mpesa", hb.Subscription.MpesaCheckoutHandler)
		protected.POST("/checkout/card", hb.Subscription.StripeCheckoutHandler)
		protected.GET("/status/:providerId", hb.Subscription.SubscriptionStatusHandler)
	}
}

// RegisterAIRoutes registers AI endpoints.
func RegisterAIRoutes(r *gin.Engine) {
	api := r.Group("/api/ai")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/stt", handlers.TranscribeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm FundiLink"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Webhook routes are registered before the rate limiter attaches; gin
	// middleware only applies to routes registered after Use.
	RegisterWebhookRoutes(r, hb)

	r.Use(middleware.RateLimitMiddleware())
	RegisterLeadRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterFundiRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterAIRoutes(r)
	RegisterHealthRoute(r)
}
