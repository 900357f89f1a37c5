package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/canvas"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/database"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/handler"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/logger"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/middleware"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/repository"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/router"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/supabase"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting VoiceEd Ally Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize External Clients ───────────────────────────────────
	canvasClient := canvas.New(cfg)

	supabaseClient, err := supabase.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure Supabase client")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	projectRepo := repository.NewProjectRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, supabaseClient)
	canvasService := service.NewCanvasService(canvasClient, log)
	projectService := service.NewProjectService(projectRepo)
	logService := service.NewLogService(
		logger.Component(log, "frontend"), cfg.ClientLogDir, cfg.ClientLogMaxBytes)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Canvas:  handler.NewCanvasHandler(canvasService),
		Auth:    handler.NewAuthHandler(authService),
		Project: handler.NewProjectHandler(projectService),
		Log:     handler.NewLogHandler(logService, cfg.ClientLogMaxBytes),
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(rdb, log, 30, time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, authLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
