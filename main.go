package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/controllers"
	"github.com/Amber-bisht/watch-me/payment"
	"github.com/Amber-bisht/watch-me/routes"
	"github.com/Amber-bisht/watch-me/services"
	"github.com/Amber-bisht/watch-me/shipping"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(utils.LoggerConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLogger()

	if err := cfg.Validate(); err != nil {
		utils.LogError("Invalid configuration: %v", err)
		log.Fatal("Invalid configuration:", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators:", err)
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Database initialization failed: %v", err)
		log.Fatal("Database initialization failed:", err)
	}

	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		// Redis only shares the aggregator token and de-duplicates webhooks
		utils.LogWarn("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := controllers.SeedAdmin(config.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			utils.LogError("Failed to seed admin: %v", err)
			log.Fatal("Failed to seed admin:", err)
		}
	}

	shippingConfig := shipping.Config{
		BaseURL:   cfg.Shiprocket.BaseURL,
		Email:     cfg.Shiprocket.Email,
		Password:  cfg.Shiprocket.Password,
		RateLimit: cfg.Shiprocket.RateLimit,
		Timeout:   cfg.Shiprocket.Timeout,
	}
	var events services.EventStore
	if redisClient != nil {
		shippingConfig.TokenStore = shipping.NewRedisTokenStore(redisClient)
		events = services.NewRedisEventStore(redisClient)
	}
	shippingClient := shipping.NewClient(shippingConfig)

	if cfg.Shiprocket.WebhookToken == "" {
		utils.LogWarn("SHIPROCKET_WEBHOOK_TOKEN is not set; shipment webhooks are accepted without authentication")
	}
	if !cfg.Shiprocket.PickupConfigured() {
		utils.LogWarn("Pickup address is not configured; shipment creation will fail")
	}

	notifier := services.NewNotifier(utils.NewMailer(utils.EmailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}))

	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	checkoutService := services.NewCheckoutService(config.DB, gateway)
	paymentService := services.NewPaymentService(config.DB, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret, notifier, events)
	shipmentService := services.NewShipmentService(config.DB, shippingClient, cfg.Shiprocket.Pickup, cfg.Shiprocket.PickupLocation, notifier)
	orderService := services.NewOrderService(config.DB, notifier)

	// Set up router
	router := routes.SetupRouter(routes.RouterConfig{
		JWTSecret:     cfg.JWTSecret,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.IsProduction(),
		CORSOrigins:   cfg.CORSOrigins,
	}, routes.Handlers{
		Auth:      controllers.NewAuthController(cfg.JWTSecret),
		Checkout:  controllers.NewCheckoutController(checkoutService, paymentService),
		Orders:    controllers.NewOrderController(orderService),
		Shipments: controllers.NewShipmentController(shipmentService),
		Webhooks:  controllers.NewWebhookController(paymentService, shipmentService, cfg.Shiprocket.WebhookToken),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.LogInfo("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
