package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/quangdle/anistream/internal/config"
	"github.com/quangdle/anistream/internal/db"
	"github.com/quangdle/anistream/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close()

	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	srv := server.New(cfg, database)

	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		n, err := srv.Sessions.DeleteExpired()
		if err != nil {
			logrus.WithError(err).Error("Expired session sweep failed")
			return
		}
		if n > 0 {
			logrus.WithField("count", n).Info("Removed expired sessions")
		}
	}); err != nil {
		logrus.WithError(err).Fatal("Failed to schedule session sweep")
	}
	c.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")
	c.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Forced shutdown")
	}
	logrus.Info("Server stopped")
}
