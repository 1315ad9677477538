package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/config"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/database"
	server "github.com/mauv0809/crease/internal/http"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/notifier"
	"github.com/mauv0809/crease/internal/notifier/slack"
	"github.com/mauv0809/crease/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping the default", "level", cfg.LogLevel)
	}

	selectionCfg, err := config.LoadSelection(cfg.WeightsPath)
	if err != nil {
		log.Fatalf("Failed to load selection settings: %s", err)
	}
	if _, err := selectionCfg.Options(); err != nil {
		log.Fatalf("Invalid team structure: %s", err)
	}

	if cfg.Turso.PrimaryURL == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBName), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %s", err)
		}
	}
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ld := ledger.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notify notifier.Notifier
	if cfg.Slack.Enabled() {
		notify = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack is not configured, notifications will only be logged")
		notify = slack.NewLogNotifier(metricsSvc)
	}

	ps := pubsub.NewNoop()
	if cfg.ProjectID != "" {
		ps, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	}
	defer ps.Close()

	s := server.NewServer(
		ld,
		console.New(ld),
		selectionCfg,
		metricsSvc,
		metricsHandler,
		notify,
		ps,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
