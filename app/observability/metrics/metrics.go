package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LLMInvocationsTotal      metric.Int64Counter
	LLMFallbacksTotal        metric.Int64Counter
	LLMInvocationDuration    metric.Float64Histogram
	LLMTokensTotal           metric.Int64Counter
	SuggestionCacheLookups   metric.Int64Counter
	SuggestionCacheEvictions metric.Int64Counter
	ItineraryRepairsTotal    metric.Int64Counter
	DescriptionCacheLookups  metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TravelistAI")
		var err error
		m := &AppMetrics{}

		m.LLMInvocationsTotal, err = meter.Int64Counter(
			"llm_invocations_total",
			metric.WithDescription("Model gateway invocations by purpose and outcome"),
			metric.WithUnit("{invocation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_invocations_total: %v", err)
		}

		m.LLMFallbacksTotal, err = meter.Int64Counter(
			"llm_fallbacks_total",
			metric.WithDescription("Fallback phases entered by the model gateway"),
			metric.WithUnit("{phase}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_fallbacks_total: %v", err)
		}

		m.LLMInvocationDuration, err = meter.Float64Histogram(
			"llm_invocation_duration_seconds",
			metric.WithDescription("End to end duration of a gateway invocation"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_invocation_duration_seconds: %v", err)
		}

		m.LLMTokensTotal, err = meter.Int64Counter(
			"llm_tokens_total",
			metric.WithDescription("Prompt and completion tokens consumed"),
			metric.WithUnit("{token}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_tokens_total: %v", err)
		}

		m.SuggestionCacheLookups, err = meter.Int64Counter(
			"suggestion_cache_lookups_total",
			metric.WithDescription("Suggestion cache lookups by result"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_cache_lookups_total: %v", err)
		}

		m.SuggestionCacheEvictions, err = meter.Int64Counter(
			"suggestion_cache_evictions_total",
			metric.WithDescription("Suggestion cache evictions by reason"),
			metric.WithUnit("{entry}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_cache_evictions_total: %v", err)
		}

		m.ItineraryRepairsTotal, err = meter.Int64Counter(
			"itinerary_repaired_references_total",
			metric.WithDescription("Place references dropped or repaired during plan validation"),
			metric.WithUnit("{reference}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_repaired_references_total: %v", err)
		}

		m.DescriptionCacheLookups, err = meter.Int64Counter(
			"description_cache_lookups_total",
			metric.WithDescription("Place description cache lookups by result"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create description_cache_lookups_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it against whatever
// MeterProvider is installed (a no-op one in tests).
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
