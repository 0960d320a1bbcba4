package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/config"
	"github.com/draftlab/draft-api/internal/events"
	"github.com/draftlab/draft-api/internal/handlers"
	"github.com/draftlab/draft-api/internal/logic"
	"github.com/draftlab/draft-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to create Postgres pool", "error", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		sugar.Fatalw("Failed to ping Postgres", "error", err)
	}

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Invalid ClickHouse URL", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
	}
	defer ch.Close()
	if err := ch.Ping(ctx); err != nil {
		sugar.Fatalw("Failed to ping ClickHouse", "error", err)
	}

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("Failed to ping Redis", "error", err)
	}

	// Ingest worker pool
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    ch,
		Logger:        logger,
	})
	pool.Start(ctx)
	defer pool.Stop()

	// Historical corpus and analysis services
	loadCtx, cancelLoad := context.WithTimeout(ctx, 2*time.Minute)
	corpus, err := logic.NewCorpusService(ch).LoadMatches(loadCtx)
	cancelLoad()
	if err != nil {
		sugar.Fatalw("Failed to load match corpus", "error", err)
	}
	sugar.Infow("Match corpus loaded", "matches", len(corpus))

	assistant := logic.NewAssistantService(corpus, cfg.MinPairSamples)
	leaderboard := logic.NewLeaderboardService(redisClient, pg, sugar)

	producer := events.NewProducer(cfg.KafkaBrokers, sugar)
	defer producer.Close()

	game := logic.NewGameService(logic.GameConfig{
		Assistant:   assistant,
		Store:       logic.NewSessionStore(),
		Corpus:      corpus,
		Seed:        cfg.OpponentSeed,
		Leaderboard: leaderboard,
		Publisher:   producer,
		Logger:      sugar,
	})

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Postgres:   pg,
		ClickHouse: ch,
		Redis:      redisClient,
		Logger:     logger,
		Assistant:  assistant,
		Game:       game,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest/drafts", h.IngestDrafts)

		r.Route("/draft", func(r chi.Router) {
			r.Post("/analyze", h.AnalyzeDraft)
			r.Post("/predict", h.PredictWin)
			r.Post("/recommend/picks", h.RecommendPicks)
			r.Post("/recommend/bans", h.RecommendBans)
			r.Get("/entities", h.GetEntities)
		})

		r.Route("/game", func(r chi.Router) {
			r.Post("/session", h.StartSession)
			r.Get("/session/{sessionID}", h.GetSession)
			r.Get("/session/{sessionID}/actions", h.GetAvailableActions)
			r.Post("/session/{sessionID}/move", h.SubmitMove)
			r.Get("/leaderboard", h.GetLeaderboard)
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server error", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server forced to shutdown", "error", err)
	}
	sugar.Info("Server exited")
}
