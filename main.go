package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/config"
	"github.com/mridulja/flightbookingagent/cron"
	"github.com/mridulja/flightbookingagent/database"
	"github.com/mridulja/flightbookingagent/handlers"
	"github.com/mridulja/flightbookingagent/services"
	"github.com/mridulja/flightbookingagent/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	utils.InitializeLogger(cfg.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Starting Flight Booking Assistant",
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("env", cfg.AppEnv))

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	// Wire the core services
	catalog := services.NewPriceCatalog()
	systemPrompt := services.SystemPrompt(catalog.Destinations())

	var adapter services.ModelAdapter
	switch cfg.AIProvider {
	case "openai":
		adapter = services.NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, systemPrompt)
	case "anthropic":
		adapter = services.NewAnthropicAdapter(cfg.AnthropicAPIKey, cfg.AnthropicModel, systemPrompt)
	default:
		adapter = services.NewRulesAdapter(catalog.Destinations())
	}

	var sender services.ConfirmationSender
	if cfg.ConfirmationMode == "smtp" {
		sender = services.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		sender = services.NewSimulatedSender(cfg.ConfirmationFailureRate, time.Now().UnixNano())
	}

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	var sessionStore services.SessionStore
	var enqueuer services.RetryEnqueuer
	var worker *asynq.Server
	var asynqClient *asynq.Client

	bookingStore := database.NewBookingStore(db)

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		sessionStore = services.NewRedisSessionStore(redisClient, sessionTTL)

		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		enqueuer = services.NewAsynqRetryEnqueuer(asynqClient)
	} else {
		logger.Info("REDIS_ADDR not set, using in-memory sessions and no background retries")
		sessionStore = services.NewMemorySessionStore(sessionTTL)
	}

	recorder := services.NewBookingRecorder(bookingStore, sender, enqueuer, logger)
	if asynqClient != nil {
		worker = cron.InitConfirmationWorker(cfg, recorder, logger)
	}

	dialogue := services.NewDialogueService(adapter, catalog, recorder, sessionStore, logger, services.DialogueConfig{
		ModelTimeout: time.Duration(cfg.ModelTimeoutSeconds) * time.Second,
		MaxRetries:   cfg.ModelMaxRetries,
	})

	// Setup Gin router
	router := setupRouter(handlers.New(dialogue, recorder, catalog, logger))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func setupRouter(h *handlers.Handler) *gin.Engine {
	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api")
	{
		api.GET("/destinations", h.GetDestinations)

		api.POST("/chat", h.Chat)

		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/retry-confirmation", h.RetryConfirmation)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
