package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/travelist-ai/app/logger"
	"github.com/FACorreiaa/travelist-ai/app/observability/metrics"
	"github.com/FACorreiaa/travelist-ai/app/tracer"
	"github.com/FACorreiaa/travelist-ai/config"
	_ "github.com/FACorreiaa/travelist-ai/docs"
	"github.com/FACorreiaa/travelist-ai/internal/container"
	"github.com/FACorreiaa/travelist-ai/internal/router"
)

const serviceName = "travelist-ai"

// @title        Travelist AI API
// @version      1.0
// @description  Recommendation extraction, place suggestions, trip planning and place descriptions.
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var shutdownTelemetry tracer.Shutdown
	if cfg.Handlers.Prometheus.Enabled {
		shutdownTelemetry, err = tracer.InitTracingAndMetrics(serviceName, cfg.Handlers.Prometheus.Port, logger)
		if err != nil {
			logger.Error("Failed to initialize telemetry", slog.Any("error", err))
			os.Exit(1)
		}
	}
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	apiRouter := router.SetupRouter(&router.Config{
		RecommendationHandler: c.RecommendationHandler,
		SuggestionsHandler:    c.SuggestionsHandler,
		ItineraryHandler:      c.ItineraryHandler,
		DescriptionHandler:    c.DescriptionHandler,
		LLMInteractionHandler: c.LLMInteractionHandler,
		AllowedOrigins:        cfg.Server.AllowedOrigins,
	})

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress),
			slog.String("provider", cfg.LLM.Provider), slog.String("primary_model", cfg.LLM.PrimaryModel))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}
	logger.Info("Application shut down complete.")
}
