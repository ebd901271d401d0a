package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/welcomepage/teamgame/internal/config"
	"github.com/welcomepage/teamgame/internal/game"
	"github.com/welcomepage/teamgame/internal/game/openai"
	"github.com/welcomepage/teamgame/internal/logging"
	"github.com/welcomepage/teamgame/internal/server"
)

// Application aggregates shared infrastructure (optional Redis, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, the completion client and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; recent-subject tracking disabled")
	}

	completer := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		CallTimeout:    cfg.OpenAI.CallTimeout,
		ConnectTimeout: cfg.OpenAI.ConnectTimeout,
	}, logger)
	if !completer.Configured() {
		logger.Warn().Msg("OPENAI_API_KEY not set or is placeholder; question generation will fail")
	}

	gameSvc := game.NewService(completer, game.ServiceOptions{Model: cfg.OpenAI.Model}, logger)
	recentStore := game.NewRecentSubjects(redisClient, cfg.Game.RecentSubjectTTL)
	gameHandlers := game.NewHTTPHandlers(gameSvc, recentStore, logger)

	return &Application{
		cfg:    cfg,
		logger: logger,
		redis:  redisClient,
		http:   server.NewHTTPServer(cfg, logger, gameHandlers),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
