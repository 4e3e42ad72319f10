// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifelink-api-server/config"
	"lifelink-api-server/internal/api/routes"
	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/logger"
	"lifelink-api-server/internal/mailer"
	"lifelink-api-server/internal/payment"
	"lifelink-api-server/internal/s3"
	"lifelink-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logger.New("info").Fatalf("Could not load config: %v", err)
	}

	log := logger.New(cfg.Log.Level)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	mainLog := logger.Component(log, "main")

	// 2. Connect to MongoDB, create indexes and seed reference data
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		cancel()
		mainLog.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := database.Bootstrap(ctx, db.DB, cfg, logger.Component(log, "seeder")); err != nil {
		cancel()
		mainLog.Fatalf("Failed to bootstrap database: %v", err)
	}
	cancel()

	// 3. Optional integrations
	deps := routes.Dependencies{
		Users:         database.NewUserStore(db.DB),
		Donations:     database.NewDonationStore(db.DB),
		Funds:         database.NewFundStore(db.DB),
		Geo:           database.NewGeoStore(db.DB),
		Requests:      database.NewRequestStore(db.DB),
		Notifications: database.NewNotificationStore(db.DB),
		Tokens:        auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL()),
		Payments:      payment.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.Currency),
		Hub:           socket.NewHub(logger.Component(log, "hub")),
	}
	if cfg.Stripe.SecretKey == "" {
		mainLog.Warn("STRIPE_SECRET_KEY not set, fund endpoints will answer 503")
	}

	uploader, err := s3.NewUploader(context.Background(), cfg.S3)
	if err != nil {
		mainLog.Fatalf("Failed to initialize S3 uploader: %v", err)
	}
	if uploader != nil {
		deps.Uploader = uploader
	} else {
		mainLog.Warn("S3 bucket not configured, avatar upload is disabled")
	}

	if mail := mailer.New(cfg.Mail); mail != nil {
		deps.Mail = mail
	} else {
		mainLog.Warn("RESEND_API_KEY not set, notifications will not be emailed")
	}

	// 4. Start server
	router := routes.SetupRouter(cfg, deps, log)
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		mainLog.Infof("Starting API server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Fatalf("Failed to run server: %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	sig := <-interrupt
	mainLog.Infof("Shutting down server, %s", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLog.Errorf("Error on server shutdown: %v", err)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		mainLog.Errorf("Error disconnecting MongoDB: %v", err)
	}
}
