package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/lifebots/assistant-api/internal/database"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/queue"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	store mcp.Store
	db    *database.DB
	queue queue.JobQueue
}

// NewHealthChecker creates a health checker over the service's dependencies.
func NewHealthChecker(store mcp.Store, db *database.DB, jobQueue queue.JobQueue) *HealthChecker {
	return &HealthChecker{store: store, db: db, queue: jobQueue}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string)

		if err := h.store.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			checks["context_store"] = "unhealthy: " + err.Error()
		} else {
			checks["context_store"] = "healthy"
		}

		if h.db != nil {
			if err := h.db.PingContext(ctx); err != nil {
				response.Status = "unhealthy"
				checks["database"] = "unhealthy: " + err.Error()
			} else {
				checks["database"] = "healthy"
			}
		}

		if h.queue != nil {
			if err := h.queue.HealthCheck(ctx); err != nil {
				response.Status = "unhealthy"
				checks["queue"] = "unhealthy: " + err.Error()
			} else {
				checks["queue"] = "healthy"
			}
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		respondJSON(w, statusCode, response)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Version handles the /version endpoint. Only minimal info is exposed.
func Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
