package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	website "github.com/activcleaning/website"
	"github.com/activcleaning/website/internal/config"
	"github.com/activcleaning/website/internal/db"
	"github.com/activcleaning/website/internal/mailer"
	"github.com/activcleaning/website/internal/server"
	"github.com/activcleaning/website/internal/server/routes"
)

const purgeInterval = 24 * time.Hour

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	notifier, err := mailer.New(cfg.Mail, cfg.Contact.Recipient, cfg.Contact.PrivacyContact)
	if err != nil {
		slog.Error("Failed to build mail notifier", "error", err)
		return
	}
	if !cfg.Mail.Configured() {
		slog.Warn("SMTP configuration incomplete, notification emails are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go retentionLoop(ctx, database, cfg.Retention, log)

	srv := server.New(log, website.PublicFS, cfg.Server.AllowedOrigins)
	srv.RegisterRouter(routes.NewContactRoutes(database, notifier, log, cfg.Contact.RateLimitMax))
	srv.RegisterRouter(routes.NewHealthRoutes())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down server cleanly", "error", err)
	}
}

// retentionLoop purges expired rows at startup and then once a day until
// shutdown. Purge failures are logged, never fatal.
func retentionLoop(ctx context.Context, database *db.Database, cfg config.RetentionConfig, log *slog.Logger) {
	database.PurgeExpired(ctx, log, cfg.ContactDays, cfg.GDPRDays)

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			database.PurgeExpired(ctx, log, cfg.ContactDays, cfg.GDPRDays)
		case <-ctx.Done():
			return
		}
	}
}
