package llmInteraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/travelist-ai/app/observability/metrics"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

var (
	_ LLmInteractionRepository = (*PostgresLlmInteractionRepo)(nil)
	_ LLmInteractionRepository = (*LogLlmInteractionRepo)(nil)
)

type LLmInteractionRepository interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error
}

// DB is the subset of pgxpool.Pool the repository needs, so tests can use pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresLlmInteractionRepo struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresLlmInteractionRepo(pgpool DB, logger *slog.Logger) *PostgresLlmInteractionRepo {
	return &PostgresLlmInteractionRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresLlmInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	query := `
        INSERT INTO llm_interactions (
            id, purpose, prompt, response_text, model_used,
            prompt_tokens, completion_tokens, total_tokens,
            latency_ms, fallback_phase, error
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	start := time.Now()
	_, err := r.pgpool.Exec(ctx, query,
		interaction.ID, interaction.Purpose, interaction.Prompt, interaction.ResponseText,
		interaction.ModelUsed, interaction.PromptTokens, interaction.CompletionTokens,
		interaction.TotalTokens, interaction.LatencyMs, interaction.FallbackPhase.String(),
		nullIfEmpty(interaction.Error),
	)
	m := metrics.Get()
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "save_llm_interaction")))
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", "save_llm_interaction")))
		r.logger.ErrorContext(ctx, "Failed to insert llm interaction", slog.Any("error", err))
		return fmt.Errorf("failed to save llm interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns the latest interactions for one purpose, newest first.
func (r *PostgresLlmInteractionRepo) RecentInteractions(ctx context.Context, purpose string, limit int) ([]types.LlmInteraction, error) {
	query := `
        SELECT id, purpose, prompt, response_text, model_used,
               prompt_tokens, completion_tokens, total_tokens,
               latency_ms, fallback_phase, COALESCE(error, '')
        FROM llm_interactions
        WHERE purpose = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pgpool.Query(ctx, query, purpose, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query llm interactions: %w", err)
	}
	defer rows.Close()

	var out []types.LlmInteraction
	for rows.Next() {
		var (
			it    types.LlmInteraction
			phase string
		)
		if err := rows.Scan(&it.ID, &it.Purpose, &it.Prompt, &it.ResponseText, &it.ModelUsed,
			&it.PromptTokens, &it.CompletionTokens, &it.TotalTokens,
			&it.LatencyMs, &phase, &it.Error); err != nil {
			return nil, fmt.Errorf("failed to scan llm interaction: %w", err)
		}
		it.FallbackPhase = parsePhase(phase)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate llm interactions: %w", err)
	}
	return out, nil
}

func parsePhase(s string) types.FallbackPhase {
	switch s {
	case types.PhaseFallbackReasoning.String():
		return types.PhaseFallbackReasoning
	case types.PhaseFallbackRefinement.String():
		return types.PhaseFallbackRefinement
	default:
		return types.PhasePrimary
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LogLlmInteractionRepo records interactions as structured log lines. Used
// when Postgres is disabled.
type LogLlmInteractionRepo struct {
	logger *slog.Logger
}

func NewLogLlmInteractionRepo(logger *slog.Logger) *LogLlmInteractionRepo {
	return &LogLlmInteractionRepo{logger: logger}
}

func (r *LogLlmInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	r.logger.InfoContext(ctx, "LLM interaction",
		slog.String("id", interaction.ID.String()),
		slog.String("purpose", interaction.Purpose),
		slog.String("model", interaction.ModelUsed),
		slog.String("phase", interaction.FallbackPhase.String()),
		slog.Int("prompt_tokens", interaction.PromptTokens),
		slog.Int("completion_tokens", interaction.CompletionTokens),
		slog.Int("latency_ms", interaction.LatencyMs),
		slog.String("error", interaction.Error),
	)
	return nil
}
