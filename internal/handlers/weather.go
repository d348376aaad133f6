package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"go.uber.org/zap"
)

// WeatherHandler serves the weather-outfit and health-card bots. Both are
// generate-or-fallback: the AI path produces structured JSON, and any
// failure along that path degrades to deterministic canned output keyed on
// the weather bands, so the endpoints always succeed.
type WeatherHandler struct {
	contexts *mcp.Service
	gen      ai.Generator
	logger   *zap.Logger
}

// NewWeatherHandler creates a weather handler.
func NewWeatherHandler(contexts *mcp.Service, gen ai.Generator, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{contexts: contexts, gen: gen, logger: logger}
}

// RegisterRoutes registers the weather routes on the given router.
func (h *WeatherHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/weather", h.Outfits).Methods("POST")
	r.HandleFunc("/healthcard", h.HealthCard).Methods("POST")
}

// WeatherData mirrors the client-supplied current-conditions payload.
type WeatherData struct {
	Current struct {
		Temperature2m      float64 `json:"temperature2m"`
		Precipitation      float64 `json:"precipitation"`
		RelativeHumidity2m float64 `json:"relativeHumidity2m"`
		WindSpeed10m       float64 `json:"windSpeed10m"`
	} `json:"current"`
}

// WeatherBotRequest is the request body for both weather-driven bots.
type WeatherBotRequest struct {
	WeatherData WeatherData `json:"weatherData"`
	Longitude   float64     `json:"longitude"`
	Latitude    float64     `json:"latitude"`
}

func (req *WeatherBotRequest) snapshot() ai.WeatherSnapshot {
	return ai.WeatherSnapshot{
		Temperature:   req.WeatherData.Current.Temperature2m,
		Precipitation: req.WeatherData.Current.Precipitation,
		Humidity:      req.WeatherData.Current.RelativeHumidity2m,
		WindSpeed:     req.WeatherData.Current.WindSpeed10m,
	}
}

func (req *WeatherBotRequest) conditions() string {
	return fmt.Sprintf(
		"Current weather at (%.4f, %.4f): temperature %.1f°C, precipitation %.1fmm, humidity %.0f%%, wind %.1f km/h.",
		req.Latitude, req.Longitude,
		req.WeatherData.Current.Temperature2m,
		req.WeatherData.Current.Precipitation,
		req.WeatherData.Current.RelativeHumidity2m,
		req.WeatherData.Current.WindSpeed10m,
	)
}

// Outfits recommends clothing for the reported conditions.
func (h *WeatherHandler) Outfits(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req WeatherBotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	outfits := h.generateOutfits(r, &req)
	h.recordWeatherCheck(r, user)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": outfits,
		"success": true,
	})
}

func (h *WeatherHandler) generateOutfits(r *http.Request, req *WeatherBotRequest) []ai.OutfitItem {
	raw, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.WeatherOutfitPrompt(),
		Message: req.conditions(),
	})
	if err != nil {
		h.logger.Warn("weather_outfit_generation_failed_using_fallback", zap.Error(err))
		return ai.FallbackOutfits(req.snapshot())
	}

	var outfits []ai.OutfitItem
	if err := ai.ParseJSONArray(raw, &outfits); err != nil || len(outfits) == 0 {
		h.logger.Warn("weather_outfit_parse_failed_using_fallback", zap.Error(err))
		return ai.FallbackOutfits(req.snapshot())
	}
	return outfits
}

// HealthCard produces weather-appropriate precautions and a medicine list.
func (h *WeatherHandler) HealthCard(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req WeatherBotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	card := h.generateHealthCard(r, &req)
	h.recordWeatherCheck(r, user)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": card,
		"success": true,
	})
}

func (h *WeatherHandler) generateHealthCard(r *http.Request, req *WeatherBotRequest) ai.HealthCard {
	raw, err := h.gen.Generate(r.Context(), ai.Request{
		System:   ai.HealthCardPrompt(),
		Message:  req.conditions(),
		JSONOnly: true,
	})
	if err != nil {
		h.logger.Warn("health_card_generation_failed_using_fallback", zap.Error(err))
		return ai.FallbackHealthCard(req.snapshot())
	}

	var card ai.HealthCard
	if err := ai.ParseJSONObject(raw, &card); err != nil || len(card.HealthPrecautions) == 0 {
		h.logger.Warn("health_card_parse_failed_using_fallback", zap.Error(err))
		return ai.FallbackHealthCard(req.snapshot())
	}
	return card
}

// recordWeatherCheck stamps the shared context so other bots can see when
// weather was last consulted. The update is best-effort.
func (h *WeatherHandler) recordWeatherCheck(r *http.Request, user *models.User) {
	now := time.Now().UTC()
	if _, err := h.contexts.Update(r.Context(), user.ID.String(), map[string]any{
		"botInteractions": map[string]any{"lastWeatherCheck": now.Format(time.RFC3339)},
	}); err != nil {
		h.logger.Warn("weather_timestamp_update_failed",
			zap.String("user_id", logpkg.SanitizeUserID(user.ID.String())),
			zap.Error(err),
		)
	}
}
