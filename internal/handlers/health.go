package handlers

import (
	"net/http"
	"time"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/queue"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/signals"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// HealthBotRequest is the request body for the health bot.
type HealthBotRequest struct {
	Message     string     `json:"message" validate:"required,min=1,max=4000"`
	ChatHistory []ChatTurn `json:"chatHistory" validate:"max=50,dive"`
}

// HealthBotResponse echoes the health slice the bot relied on.
type HealthBotResponse struct {
	Response      string            `json:"response"`
	HealthContext HealthContextView `json:"healthContext"`
}

// HealthContextView is the health summary returned alongside responses.
type HealthContextView struct {
	ActiveIllness *string    `json:"activeIllness"`
	Symptoms      []string   `json:"symptoms"`
	Allergies     []string   `json:"allergies"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// Health handles health bot chat. Illness and recovery signals in the
// message update the shared context before the response is generated, so
// other bots see the state change immediately.
func (h *BotHandler) Health(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req HealthBotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.Message = validation.SanitizeText(req.Message)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	userID := user.ID.String()
	sig := signals.Extract(req.Message)

	// Context updates are fail-open: a store failure degrades to the
	// default document rather than blocking the conversation.
	doc, err := h.contexts.ApplyHealthSignals(r.Context(), userID, req.Message, sig.Illness, sig.Recovery)
	if err != nil {
		h.logger.Warn("health_signal_update_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		doc = h.resolveContext(r, userID)
	}

	if sig.Illness && doc.Health.CurrentCondition == models.ConditionSick {
		h.queueCrossBotActions(r, userID, []models.PendingAction{
			{Bot: "finance", Action: "reserve healthcare budget for current illness", CreatedAt: time.Now().UTC()},
			{Bot: "recipes", Action: "suggest recovery-friendly meals", CreatedAt: time.Now().UTC()},
		})
	}

	response, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.HealthSystemPrompt(user.DisplayName(), user.Email, doc),
		History: toHistory(req.ChatHistory),
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("health_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, HealthBotResponse{
		Response: response,
		HealthContext: HealthContextView{
			ActiveIllness: doc.Health.ActiveIllness,
			Symptoms:      doc.Health.Symptoms,
			Allergies:     doc.Health.Allergies,
			ExpiresAt:     doc.Health.ExpiresAt,
		},
	})
}

// queueCrossBotActions stores pending cross-bot follow-ups and nudges the
// worker to drain them. Both steps are best-effort.
func (h *BotHandler) queueCrossBotActions(r *http.Request, userID string, actions []models.PendingAction) {
	for _, action := range actions {
		if err := h.contexts.PushPendingAction(r.Context(), userID, action); err != nil {
			h.logger.Warn("failed_to_push_pending_action",
				zap.String("user_id", logpkg.SanitizeUserID(userID)),
				zap.String("bot", action.Bot),
				zap.Error(err),
			)
			return
		}
	}

	if h.jobs == nil {
		return
	}
	job := queue.NewJob(queue.JobTypePendingAction, userID)
	if err := h.jobs.Enqueue(r.Context(), job); err != nil {
		h.logger.Warn("failed_to_enqueue_pending_action_job",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
	}
}
