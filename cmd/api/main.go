// @title        Leaderboard API
// @version      1.0
// @description  Users with point totals, random point claims and claim history.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sirpyerre/leaderboard-api/internal/api"
	"github.com/sirpyerre/leaderboard-api/internal/api/handler"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
	"github.com/sirpyerre/leaderboard-api/internal/core/service"
	"github.com/sirpyerre/leaderboard-api/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/leaderboard-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/leaderboard-api/internal/infrastructure/queue"
	"github.com/sirpyerre/leaderboard-api/internal/pkg/config"
	"github.com/sirpyerre/leaderboard-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "leaderboard-api",
	})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("failed to read .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Document store ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	log.Info().Str("database", db.Name()).Msg("connected to MongoDB")

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Replay store (optional) ---
	var (
		rdb    *goredis.Client
		replay ports.ClaimReplayStore
	)
	rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		log.Info().Msg("REDIS_ADDR not set, idempotent claim replay disabled")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	default:
		defer func() { _ = rdb.Close() }()
		replay = redis.NewClaimReplayStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
	}

	// --- Claim dispatcher ---
	// Outlives the signal context so in-flight claims finish during shutdown.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	dispatcher := queue.NewDispatcher(cfg.Claim.Workers, log)
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	users := mongo.NewUserRepository(db)
	claims := mongo.NewClaimRepository(db)

	leaderboard := service.NewLeaderboardService(users, log)
	claimService := service.NewClaimService(users, claims, service.ClaimServiceConfig{
		Serializer: dispatcher,
		Replay:     replay,
		ReplayTTL:  cfg.Claim.IdempotencyTTL,
	}, log)

	readiness := map[string]handler.Pinger{"mongodb": handler.MongoPinger(db)}
	if rdb != nil {
		readiness["redis"] = handler.RedisPinger(rdb)
	}

	e := api.NewRouter(api.Deps{
		Leaderboard:  leaderboard,
		Claims:       claimService,
		Readiness:    readiness,
		Logger:       log,
		AllowOrigins: cfg.AllowOrigins(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
