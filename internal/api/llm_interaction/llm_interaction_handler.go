package llmInteraction

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/internal/api"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

// InteractionReader lists stored interactions.
type InteractionReader interface {
	RecentInteractions(ctx context.Context, purpose string, limit int) ([]types.LlmInteraction, error)
}

type HandlerImpl struct {
	reader InteractionReader
	logger *slog.Logger
}

func NewHandlerImpl(reader InteractionReader, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{reader: reader, logger: logger}
}

// ListInteractions godoc
// @Summary      List recent model interactions
// @Description  Returns the most recent gateway invocations for one purpose, newest first.
// @Tags         LLM
// @Produce      json
// @Param        purpose  query  string  true   "Invocation purpose (extract, suggestions, itinerary, describe)"
// @Param        limit    query  int     false  "Max rows, default 20"
// @Success      200  {array}   types.LlmInteraction
// @Failure      400  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /llm/interactions [get]
func (h *HandlerImpl) ListInteractions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LlmInteractionHandler").Start(r.Context(), "ListInteractions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/llm/interactions"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListInteractions"))

	if h.reader == nil {
		span.SetStatus(codes.Error, "interaction store disabled")
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Interaction store is not enabled")
		return
	}

	purpose := r.URL.Query().Get("purpose")
	if purpose == "" {
		span.SetStatus(codes.Error, "purpose missing")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'purpose' is required.")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'limit' must be between 1 and 200.")
			return
		}
		limit = n
	}
	span.SetAttributes(attribute.String("app.llm.purpose", purpose), attribute.Int("app.limit", limit))

	items, err := h.reader.RecentInteractions(ctx, purpose, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list interactions", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list interactions")
		return
	}
	if items == nil {
		items = []types.LlmInteraction{}
	}
	span.SetStatus(codes.Ok, "listed")
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}
