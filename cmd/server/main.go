package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/config"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/database"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/gemini"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/handler"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/logger"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/repository"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/router"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/service"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/validator"
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
		Msg("Starting Herramientas Docentes Backend")

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

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	assessmentRepo := repository.NewAssessmentRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb)
	questionService := service.NewQuestionService(questionRepo)
	assessmentService := service.NewAssessmentService(
		questionRepo,
		assessmentRepo,
		service.NewGoogleClientFactory(cfg),
		service.DefaultRandFactory,
		cfg.StrictQuestionLookup,
		log,
	)
	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.RemoteCallTimeout)
	aiService := service.NewAIService(geminiClient, log)

	if !geminiClient.IsAvailable() {
		log.Warn().Msg("GEMINI_API_KEY not set; AI assistant endpoints will return 503")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Question:   handler.NewQuestionHandler(questionService),
		Assessment: handler.NewAssessmentHandler(assessmentService, authService),
		AI:         handler.NewAIHandler(aiService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

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
