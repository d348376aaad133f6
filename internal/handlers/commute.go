package handlers

import (
	"net/http"
	"time"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// CommuteBotRequest is the request body for the commute bot.
type CommuteBotRequest struct {
	Message     string     `json:"message" validate:"required,min=1,max=4000"`
	ChatHistory []ChatTurn `json:"chatHistory" validate:"max=50,dive"`
}

// CommuteBotResponse carries the reply plus the commute slice it used.
type CommuteBotResponse struct {
	Response    string             `json:"response"`
	ContextUsed CommuteContextView `json:"contextUsed"`
}

// CommuteContextView summarizes what the commute bot personalized on.
type CommuteContextView struct {
	City            string `json:"city"`
	PreferredMode   string `json:"preferredMode"`
	BudgetConscious bool   `json:"budgetConscious"`
}

// Commute handles commute planning chat.
func (h *BotHandler) Commute(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req CommuteBotRequest
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
	doc := h.resolveContext(r, userID)

	response, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.CommuteSystemPrompt(user.DisplayName(), doc, h.defaultCity),
		History: toHistory(req.ChatHistory),
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("commute_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	now := time.Now().UTC()
	if _, err := h.contexts.Update(r.Context(), userID, map[string]any{
		"botInteractions": map[string]any{"lastCommutePlan": now.Format(time.RFC3339)},
	}); err != nil {
		h.logger.Warn("commute_timestamp_update_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
	}

	city := doc.Location.Current
	if city == "" {
		city = h.defaultCity
	}

	respondJSON(w, http.StatusOK, CommuteBotResponse{
		Response: response,
		ContextUsed: CommuteContextView{
			City:            city,
			PreferredMode:   doc.Preferences.Commute.PreferredMode,
			BudgetConscious: doc.Preferences.Commute.BudgetConscious,
		},
	})
}
