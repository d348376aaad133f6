package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"go.uber.org/zap"
)

// ContextHandler exposes the shared context document over HTTP. The
// document itself is the response body, not an envelope, so bots and the
// frontend can consume it directly.
type ContextHandler struct {
	contexts *mcp.Service
	logger   *zap.Logger
}

// NewContextHandler creates a context handler.
func NewContextHandler(contexts *mcp.Service, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{contexts: contexts, logger: logger}
}

// RegisterRoutes registers the context routes on the given router.
func (h *ContextHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Get).Methods("GET")
	r.HandleFunc("", h.Update).Methods("POST")
}

// Get returns the user's full context document, materializing the default
// for users never seen before.
func (h *ContextHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondJSONError(w, http.StatusBadRequest, "missing_user_id", "userId query parameter is required")
		return
	}

	doc, err := h.contexts.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed_to_read_context",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "context_read_failed", "failed to read user context")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// Update merges a partial document into the stored context and returns the
// full resulting document.
func (h *ContextHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondJSONError(w, http.StatusBadRequest, "missing_user_id", "userId query parameter is required")
		return
	}

	var update map[string]any
	if err := decodeJSON(r, &update); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}

	doc, err := h.contexts.Update(r.Context(), userID, update)
	if err != nil {
		h.logger.Error("failed_to_update_context",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "context_update_failed", "failed to update user context")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}
