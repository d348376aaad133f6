package handlers

import (
	"net/http"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/signals"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// RecipesBotRequest is the request body for the recipes bot.
type RecipesBotRequest struct {
	Message     string     `json:"message" validate:"required,min=1,max=4000"`
	ChatHistory []ChatTurn `json:"chatHistory" validate:"max=50,dive"`
}

// RecipesBotResponse carries the reply plus the food slice that shaped it.
type RecipesBotResponse struct {
	Response    string          `json:"response"`
	FoodContext FoodContextView `json:"foodContext"`
}

// FoodContextView summarizes what the recipes bot personalized on.
type FoodContextView struct {
	Allergies          []string `json:"allergies"`
	FavoriteCuisines   []string `json:"favoriteCuisines"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	AllergenWarning    bool     `json:"allergenWarning"`
}

// Recipes handles recipes bot chat. Cuisine mentions are learned into the
// shared food preferences, and requests touching a recorded allergen get an
// explicit warning flag.
func (h *BotHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req RecipesBotRequest
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
	doc := h.resolveContext(r, userID)

	if cuisines := mergeCuisines(doc.Food.FavoriteCuisines, sig.Cuisines); len(cuisines) > len(doc.Food.FavoriteCuisines) {
		updated, err := h.contexts.Update(r.Context(), userID, map[string]any{
			"food": map[string]any{"favoriteCuisines": cuisines},
		})
		if err != nil {
			h.logger.Warn("cuisine_preference_update_failed",
				zap.String("user_id", logpkg.SanitizeUserID(userID)),
				zap.Error(err),
			)
		} else {
			doc = updated
		}
	}

	allergens := append([]string{}, doc.Food.Allergies...)
	allergens = append(allergens, doc.Health.Allergies...)
	allergenWarning := signals.MentionsAllergen(req.Message, allergens)

	response, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.RecipesSystemPrompt(user.DisplayName(), doc),
		History: toHistory(req.ChatHistory),
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("recipes_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, RecipesBotResponse{
		Response: response,
		FoodContext: FoodContextView{
			Allergies:          doc.Food.Allergies,
			FavoriteCuisines:   doc.Food.FavoriteCuisines,
			DietaryPreferences: doc.Food.DietaryPreferences,
			AllergenWarning:    allergenWarning,
		},
	})
}

func mergeCuisines(existing, detected []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := append([]string{}, existing...)
	for _, cuisine := range existing {
		seen[cuisine] = true
	}
	for _, cuisine := range detected {
		if !seen[cuisine] {
			seen[cuisine] = true
			merged = append(merged, cuisine)
		}
	}
	return merged
}
