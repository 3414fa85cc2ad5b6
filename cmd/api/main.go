package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/bidhall/auction-api/internal/config"
	"github.com/bidhall/auction-api/internal/database"
	"github.com/bidhall/auction-api/internal/handlers"
	"github.com/bidhall/auction-api/internal/jobs"
	"github.com/bidhall/auction-api/internal/middleware"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/internal/services"
	"github.com/bidhall/auction-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)
	txm := repository.NewTxManager(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "max_concurrent", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, txm, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Item browsing (public)
		v1.GET("/items", h.Item.Index)
		v1.GET("/items/:item_id", h.Item.Show)

		// Auction browsing (public)
		v1.GET("/auctions", h.Auction.Index)
		v1.GET("/auctions/:auction_id", h.Auction.Show)
		v1.GET("/auctions/:auction_id/bids", h.Auction.Bids)
		v1.GET("/auctions/:auction_id/history", h.Auction.History)
		v1.GET("/auctions/:auction_id/winning_bid", h.Auction.WinningBid)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:user_id/role", h.User.UpdateRole)

				admin.GET("/audits", h.Audit.Index)

				admin.GET("/reports", h.Report.Index)
				admin.GET("/reports/:report_id", h.Report.Show)
				admin.POST("/reports/:report_id/review", h.Report.StartReview)
				admin.POST("/reports/:report_id/resolve", h.Report.Resolve)

				admin.POST("/auctions/:auction_id/reconcile", h.Auction.Reconcile)
			}

			// Auctioneer + admin routes (listing and lifecycle control)
			auctioneer := protected.Group("")
			auctioneer.Use(middleware.RequireRole("admin", "auctioneer"))
			{
				auctioneer.POST("/items", h.Item.Create)
				auctioneer.POST("/items/:item_id/images", h.Item.AddImage)

				auctioneer.POST("/auctions", h.Auction.Create)
				auctioneer.POST("/auctions/:auction_id/open", h.Auction.Open)
				auctioneer.POST("/auctions/:auction_id/close", h.Auction.Close)
				auctioneer.POST("/auctions/:auction_id/cancel", h.Auction.Cancel)
			}

			// Any authenticated user
			protected.GET("/users/:user_id", h.User.Show)
			protected.POST("/auctions/:auction_id/bids", h.Auction.PlaceBid)
			protected.POST("/reports", h.Report.Create)

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Advance due auctions on a short interval. Runs once at startup so
	// auctions that came due while the process was down are caught up
	// immediately.
	worker.ScheduleEveryImmediate(cfg.SweepInterval, func(ctx context.Context) error {
		transitions, err := svcs.Auction.AdvanceDueAuctions(ctx, time.Now().UTC())
		if len(transitions) > 0 {
			logger.Info("[Job] Advanced due auctions", "transitions", len(transitions))
		}
		return err
	})

	logger.Info("Scheduled recurring jobs", "sweep_interval", cfg.SweepInterval)
}
