package main

import (
	"context"
	"database/sql"
	"ecomap-score-service/internal/adapters/events"
	"ecomap-score-service/internal/adapters/generative"
	"ecomap-score-service/internal/adapters/repositories"
	"ecomap-score-service/internal/adapters/sessions"
	"ecomap-score-service/internal/api"
	"ecomap-score-service/internal/config"
	"ecomap-score-service/internal/platform/db"
	"ecomap-score-service/internal/platform/logging"
	"ecomap-score-service/internal/ports"
	"ecomap-score-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Gemini, Redis, Postgres, Kafka) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	generator := generative.NewGeminiTextGenerator(generative.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; generator-backed endpoints will return 503")
	}

	challenges, closeDB, err := openChallengeRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	store, redisClient, err := openPlacementStore(cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher, err := openScorePublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	router := api.NewRouter(api.Dependencies{
		Evaluator:   services.NewEvaluator(generator),
		Analyst:     services.NewAnalyst(generator),
		Challenge:   services.NewChallengeGenerator(generator, challenges),
		Board:       services.NewPlacementBoard(store),
		Publisher:   publisher,
		Limiter:     api.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, logger),
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      logger,
	})

	// Write timeout leaves room for a slow generateContent call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GeminiTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Postgres when DATABASE_URL is set, otherwise the bundled seed file.
func openChallengeRepository(cfg *config.Config, logger *zap.Logger) (ports.ChallengeRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		areas, err := repositories.LoadChallengeSeeds(cfg.SeedPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("challenge areas loaded from seed file", zap.String("path", cfg.SeedPath), zap.Int("count", len(areas)))
		return repositories.NewStaticChallengeRepository(areas), func() {}, nil
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := initAndSeed(conn, cfg.SeedPath); err != nil {
		conn.Close()
		return nil, nil, err
	}
	logger.Info("challenge areas served from postgres")
	return repositories.NewPostgresChallengeRepository(conn), func() { conn.Close() }, nil
}

// Redis when REDIS_URL is set, otherwise in-process sessions without rate limiting.
func openPlacementStore(cfg *config.Config, logger *zap.Logger) (ports.PlacementStore, *redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL is not set; using in-memory sessions and no rate limiting")
		return sessions.NewMemoryPlacementStore(cfg.SessionTTL), nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return sessions.NewRedisPlacementStore(client, cfg.SessionTTL), client, nil
}

func openScorePublisher(cfg *config.Config, logger *zap.Logger) (ports.ScorePublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopScorePublisher{}, func() {}, nil
	}

	p, err := events.NewKafkaScorePublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing score events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("close score publisher", zap.Error(err))
		}
	}, nil
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
