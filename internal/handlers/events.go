package handlers

import (
	"net/http"
	"time"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// AttendedEvent reports an event the user went to, so its cost can be
// debited from the shared balance.
type AttendedEvent struct {
	Name  string  `json:"name" validate:"required,min=1,max=200"`
	Cost  float64 `json:"cost" validate:"gte=0"`
	Venue string  `json:"venue" validate:"max=200"`
}

// EventsBotRequest is the request body for the events bot.
type EventsBotRequest struct {
	Message       string         `json:"message" validate:"required,min=1,max=4000"`
	ChatHistory   []ChatTurn     `json:"chatHistory" validate:"max=50,dive"`
	AttendedEvent *AttendedEvent `json:"attendedEvent,omitempty"`
}

// EventsBotResponse carries the reply plus the context slice that shaped it.
type EventsBotResponse struct {
	Response    string           `json:"response"`
	ContextUsed EventContextView `json:"contextUsed"`
}

// EventContextView summarizes what the events bot personalized on.
type EventContextView struct {
	City            string   `json:"city"`
	Interests       []string `json:"interests"`
	BudgetMax       float64  `json:"budgetMax"`
	Balance         float64  `json:"balance"`
	IsCurrentlySick bool     `json:"isCurrentlySick"`
}

// Events handles events bot chat. An attached attended event debits the
// balance and re-derives the events budget before the reply is generated.
func (h *BotHandler) Events(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req EventsBotRequest
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

	var doc *models.UserContext
	if req.AttendedEvent != nil {
		var err error
		doc, err = h.contexts.RecordEventAttendance(r.Context(), userID, models.EventRecord{
			Name:  req.AttendedEvent.Name,
			Cost:  req.AttendedEvent.Cost,
			Venue: req.AttendedEvent.Venue,
			Date:  time.Now().UTC(),
		})
		if err != nil {
			h.logger.Warn("event_attendance_record_failed",
				zap.String("user_id", logpkg.SanitizeUserID(userID)),
				zap.Error(err),
			)
			doc = h.resolveContext(r, userID)
		}
	} else {
		doc = h.resolveContext(r, userID)
	}

	response, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.EventsSystemPrompt(user.DisplayName(), doc, h.defaultCity),
		History: toHistory(req.ChatHistory),
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("events_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	city := doc.Location.Current
	if city == "" {
		city = h.defaultCity
	}

	respondJSON(w, http.StatusOK, EventsBotResponse{
		Response: response,
		ContextUsed: EventContextView{
			City:            city,
			Interests:       doc.Preferences.Events.Interests,
			BudgetMax:       doc.Preferences.Events.BudgetRange.Max,
			Balance:         doc.Finance.TotalBalance,
			IsCurrentlySick: doc.Health.CurrentCondition == models.ConditionSick,
		},
	})
}

// CheckBudgetRequest asks whether an event cost fits the user's budget.
type CheckBudgetRequest struct {
	EventCost float64 `json:"eventCost" validate:"required,gt=0"`
}

// CheckBudget answers the affordability question deterministically, with no
// AI involved: the balance and the derived events budget decide.
func (h *BotHandler) CheckBudget(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req CheckBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", "eventCost must be a positive number")
		return
	}

	doc := h.resolveContext(r, user.ID.String())
	respondJSON(w, http.StatusOK, mcp.CheckAffordability(doc, req.EventCost))
}

// RecommendEvents echoes the effective discovery filters for the user. Empty
// filter fields fall back to the stored preferences.
func (h *BotHandler) RecommendEvents(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var filters mcp.RecommendationFilters
	if err := decodeJSON(r, &filters); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	doc := h.resolveContext(r, user.ID.String())
	respondJSON(w, http.StatusOK, mcp.Recommend(doc, filters))
}
