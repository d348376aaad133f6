package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/queue"
	"github.com/lifebots/assistant-api/internal/request"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"go.uber.org/zap"
)

// BotHandler hosts the conversational bots. Every bot follows the same
// shape: resolve the user's shared context (fail-open to the default
// document), apply signal-driven context updates, generate a personalized
// response, and echo the context slice it relied on.
type BotHandler struct {
	contexts    *mcp.Service
	gen         ai.Generator
	jobs        queue.JobQueue
	logger      *zap.Logger
	defaultCity string
}

// NewBotHandler creates a bot handler. jobs may be nil in deployments
// without a queue; cross-bot actions are then only stored on the document.
func NewBotHandler(contexts *mcp.Service, gen ai.Generator, jobs queue.JobQueue, logger *zap.Logger, defaultCity string) *BotHandler {
	if defaultCity == "" {
		defaultCity = models.DefaultCity
	}
	return &BotHandler{
		contexts:    contexts,
		gen:         gen,
		jobs:        jobs,
		logger:      logger,
		defaultCity: defaultCity,
	}
}

// RegisterRoutes registers the bot routes on the given router.
func (h *BotHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("POST")
	r.HandleFunc("/finance", h.Finance).Methods("POST")
	r.HandleFunc("/events", h.Events).Methods("POST")
	r.HandleFunc("/events/check-budget", h.CheckBudget).Methods("POST")
	r.HandleFunc("/events/recommend", h.RecommendEvents).Methods("POST")
	r.HandleFunc("/recipes", h.Recipes).Methods("POST")
	r.HandleFunc("/products", h.Products).Methods("POST")
	r.HandleFunc("/commute", h.Commute).Methods("POST")
}

// ChatTurn is one prior turn supplied by the client.
type ChatTurn struct {
	Role string `json:"role" validate:"omitempty,chat_role"`
	Text string `json:"text" validate:"max=4000"`
}

func toHistory(turns []ChatTurn) []ai.Message {
	history := make([]ai.Message, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Role == "assistant" || turn.Role == "model" {
			role = "assistant"
		}
		history = append(history, ai.Message{Role: role, Content: turn.Text})
	}
	return history
}

// resolveContext loads the user's document, falling back to the default on
// store failure so personalization degrades instead of breaking the bot.
func (h *BotHandler) resolveContext(r *http.Request, userID string) *models.UserContext {
	doc, err := h.contexts.Get(r.Context(), userID)
	if err != nil {
		h.logger.Warn("context_fetch_failed_using_default",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		return models.DefaultUserContext()
	}
	return doc
}

// respondGenerationError maps provider failures onto client-facing status
// codes: rate limits and quota exhaustion are retryable-by-the-client
// conditions, everything else is a plain 500. When the provider told us how
// long to back off, that is relayed as a Retry-After header.
func respondGenerationError(w http.ResponseWriter, err error) {
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter != nil {
		w.Header().Set("Retry-After", strconv.Itoa(int(apiErr.RetryAfter.Seconds())))
	}
	switch {
	case ai.IsQuotaError(err):
		respondJSONError(w, http.StatusServiceUnavailable, "ai_quota_exhausted", "the assistant is temporarily unavailable")
	case ai.IsRateLimitError(err):
		respondJSONError(w, http.StatusTooManyRequests, "ai_rate_limited", "too many requests, please try again shortly")
	default:
		respondJSONError(w, http.StatusInternalServerError, "ai_generation_failed", "failed to generate a response")
	}
}

// requireUser extracts the authenticated user, answering 401 when absent.
func requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return user
}
