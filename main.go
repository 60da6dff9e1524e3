// File: fundilink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundilink/config"
	"fundilink/cron"
	"fundilink/database"
	bookingRepoPkg "fundilink/database/repository/booking"
	leadRepoPkg "fundilink/database/repository/lead"
	providerRepoPkg "fundilink/database/repository/provider"
	subscriptionRepoPkg "fundilink/database/repository/subscription"
	userRepoPkg "fundilink/database/repository/user"
	"fundilink/handlers"
	"fundilink/routes"
	"fundilink/services/booking"
	"fundilink/services/conversation"
	"fundilink/services/leads"
	"fundilink/services/matching"
	"fundilink/services/notification"
	"fundilink/services/payment"
	"fundilink/services/provider"
	"fundilink/services/subscription"
	"fundilink/services/user"
	"fundilink/services/whatsapp"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitConvCache()
	if config.AppConfig.GoogleServiceAccountFile != "" {
		utils.FirebaseInit()
	}
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	leadRepo := leadRepoPkg.NewMongoLeadRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	subRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()

	// services.
	matchingService := &matching.DefaultMatchingService{
		ProviderRepo: provRepo,
		CacheClient:  utils.GetCacheClient(),
		Logger:       logger,
	}

	leadService := &leads.DefaultLeadService{
		Repo:         leadRepo,
		ProviderRepo: provRepo,
		Logger:       logger,
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	leadQueue := &leads.AsynqLeadQueue{Client: asynqClient, Logger: logger}

	var notifService notification.NotificationService = notification.NoopNotificationService{}
	if config.AppConfig.GoogleServiceAccountFile != "" {
		notifService = &notification.FCMNotificationService{
			ProviderRepo: provRepo,
			Logger:       logger,
		}
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         bookRepo,
		ProviderRepo: provRepo,
		LeadSvc:      leadService,
		Notifier:     notifService,
		Logger:       logger,
	}

	mpesaClient := payment.NewMpesaClient(logger)
	subscriptionService := &subscription.DefaultSubscriptionService{
		Repo:         subRepo,
		ProviderRepo: provRepo,
		Mpesa:        mpesaClient,
		Logger:       logger,
	}

	providerService := &provider.DefaultProviderService{Repo: provRepo, Logger: logger}
	userService := &user.DefaultUserService{Repo: userRepo, Logger: logger}

	gemini, err := conversation.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
	}
	conversationService := &conversation.DefaultConversationService{
		Store:      conversation.NewRedisContextStore(utils.GetConvCacheClient()),
		Classifier: &conversation.LLMIntentClassifier{LLM: gemini, Logger: logger},
		Extractor:  &conversation.LLMFieldExtractor{LLM: gemini, Logger: logger},
		Matcher:    matchingService,
		Leads:      leadQueue,
		Bookings:   bookingService,
		Logger:     logger,
	}

	sender := whatsapp.NewCloudAPIClient(
		config.AppConfig.WhatsAppAPIBase,
		config.AppConfig.WhatsAppPhoneID,
		config.AppConfig.WhatsAppAccessToken,
		logger,
	)

	// Background worker for lead recording and reminders.
	cron.InitWorker(leadService, notifService)

	handlerBundle := &routes.HandlerBundle{
		Webhook: &handlers.WebhookHandler{
			Conversation: conversationService,
			Sender:       sender,
			VerifyToken:  config.AppConfig.WhatsAppVerifyToken,
		},
		Lead:         &handlers.LeadHandler{LeadService: leadService},
		Booking:      &handlers.BookingHandler{BookingService: bookingService},
		Provider:     &handlers.ProviderHandler{ProviderService: providerService, MatchingService: matchingService},
		User:         &handlers.UserHandler{UserService: userService},
		Subscription: &handlers.SubscriptionHandler{SubscriptionService: subscriptionService},
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
