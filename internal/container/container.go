package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/travelist-ai/app/db"
	"github.com/FACorreiaa/travelist-ai/config"
	"github.com/FACorreiaa/travelist-ai/internal/api/description"
	generativeAI "github.com/FACorreiaa/travelist-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/travelist-ai/internal/api/itinerary"
	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/api/recommendation"
	"github.com/FACorreiaa/travelist-ai/internal/api/suggestions"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client

	Gateway *llmInteraction.GatewayImpl

	RecommendationHandler *recommendation.HandlerImpl
	SuggestionsHandler    *suggestions.HandlerImpl
	ItineraryHandler      *itinerary.HandlerImpl
	DescriptionHandler    *description.HandlerImpl
	LLMInteractionHandler *llmInteraction.HandlerImpl
}

// NewContainer wires the gateway and every service. Postgres and Redis are
// optional; without them interactions are logged and descriptions kept in
// memory. A missing API key does not fail startup: AI endpoints answer 503.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var (
		interactionRepo llmInteraction.LLmInteractionRepository = llmInteraction.NewLogLlmInteractionRepo(logger)
		reader          llmInteraction.InteractionReader
	)
	if cfg.Repositories.Postgres.Enabled {
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		pgRepo := llmInteraction.NewPostgresLlmInteractionRepo(pool, logger)
		interactionRepo, reader = pgRepo, pgRepo
	}

	var store description.Store = description.NewMemoryStore(cfg.Descriptions.TTL)
	if cfg.Repositories.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Repositories.Redis.Addr,
			Password: cfg.Repositories.Redis.Password,
			DB:       cfg.Repositories.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Repositories.Redis.Addr, err)
		}
		store = description.NewRedisStore(c.Redis)
		logger.Info("Using Redis description store", slog.String("addr", cfg.Repositories.Redis.Addr))
	}

	client, err := generativeAI.NewCompletionClient(ctx, cfg.LLM, logger)
	switch {
	case errors.Is(err, types.ErrMissingCredential):
		logger.Warn("No model API key configured, AI endpoints will be unavailable",
			slog.String("env", cfg.LLM.APIKeyEnv()))
		client = nil
	case err != nil:
		c.Close()
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	c.Gateway = llmInteraction.NewGateway(client, interactionRepo, cfg.LLM.PrimaryModel, cfg.LLM.FallbackModel, logger).
		WithAttemptTimeout(cfg.LLM.AttemptTimeout)

	suggestionCache := suggestions.NewCache(cfg.Suggestions.TTL, cfg.Suggestions.Capacity, logger)

	c.RecommendationHandler = recommendation.NewHandlerImpl(recommendation.NewServiceImpl(c.Gateway, logger), logger)
	c.SuggestionsHandler = suggestions.NewHandlerImpl(
		suggestions.NewServiceImpl(c.Gateway, suggestionCache, cfg.Suggestions.MaxSuggestions, logger), logger)
	c.ItineraryHandler = itinerary.NewHandlerImpl(itinerary.NewServiceImpl(c.Gateway, logger), logger)
	c.DescriptionHandler = description.NewHandlerImpl(
		description.NewServiceImpl(c.Gateway, store, cfg.Descriptions.TTL, logger), logger)
	c.LLMInteractionHandler = llmInteraction.NewHandlerImpl(reader, logger)
	return c, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, errors.New("database not ready")
	}
	return pool, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
}
