package handlers

import (
	"net/http"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// ProductsBotRequest is the request body for the products bot.
type ProductsBotRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
}

// Products handles product recommendation requests. The model is asked for a
// strict JSON object; when it produces one anyway wrapped in prose or fences
// the parser digs it out, and as a last resort the raw text is returned with
// a note instead of failing the request.
func (h *BotHandler) Products(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req ProductsBotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.Prompt = validation.SanitizeText(req.Prompt)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	userID := user.ID.String()
	doc := h.resolveContext(r, userID)

	raw, err := h.gen.Generate(r.Context(), ai.Request{
		System:   ai.ProductsSystemPrompt(doc),
		Message:  req.Prompt,
		JSONOnly: true,
	})
	if err != nil {
		h.logger.Error("products_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	var parsed map[string]any
	if err := ai.ParseJSONObject(raw, &parsed); err != nil {
		h.logger.Warn("products_response_not_json",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondJSON(w, http.StatusOK, map[string]any{
			"response": raw,
			"note":     "response was not structured JSON",
		})
		return
	}

	respondJSON(w, http.StatusOK, parsed)
}
