package handlers

import (
	"net/http"
	"strings"
	"time"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/signals"
	"github.com/lifebots/assistant-api/internal/validation"
	"go.uber.org/zap"
)

// FinanceBotRequest is the request body for the finance bot.
type FinanceBotRequest struct {
	UserMessage string               `json:"userMessage" validate:"required,min=1,max=4000"`
	ChatHistory []ChatTurn           `json:"chatHistory" validate:"max=50,dive"`
	Transaction *ExplicitTransaction `json:"transaction,omitempty"`
}

// ExplicitTransaction records a transaction the client states outright,
// bypassing amount extraction from the message text.
type ExplicitTransaction struct {
	Type        string  `json:"type" validate:"required,transaction_type"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"max=100"`
	Description string  `json:"description" validate:"max=200"`
}

// FinanceBotResponse carries the reply plus the finance slice it reflects.
type FinanceBotResponse struct {
	ResponseText     string               `json:"responseText"`
	FinancialContext FinancialContextView `json:"financialContext"`
}

// FinancialContextView summarizes the user's finance state for the client.
type FinancialContextView struct {
	CurrentBalance      float64 `json:"currentBalance"`
	MonthlyIncome       float64 `json:"monthlyIncome"`
	FinancialHealth     string  `json:"financialHealth"`
	CrossBotSuggestions bool    `json:"crossBotSuggestions"`
}

var crossBotFinanceKeywords = []string{
	"travel", "trip", "commute", "event", "concert", "movie",
	"food", "restaurant", "recipe", "eat",
}

// Finance handles finance bot chat. Monetary amounts detected in the
// message update the shared balances before the response is generated.
func (h *BotHandler) Finance(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req FinanceBotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.UserMessage = validation.SanitizeText(req.UserMessage)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	userID := user.ID.String()

	var doc *models.UserContext
	if req.Transaction != nil {
		doc = h.recordExplicitTransaction(r, userID, req.Transaction)
	} else {
		sig := signals.Extract(req.UserMessage)
		doc = h.applyFinanceSignals(r, userID, req.UserMessage, sig)
	}

	response, err := h.gen.Generate(r.Context(), ai.Request{
		System:  ai.FinanceSystemPrompt(doc),
		History: toHistory(req.ChatHistory),
		Message: req.UserMessage,
	})
	if err != nil {
		h.logger.Error("finance_bot_generation_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, FinanceBotResponse{
		ResponseText: response,
		FinancialContext: FinancialContextView{
			CurrentBalance:      doc.Finance.TotalBalance,
			MonthlyIncome:       doc.Finance.MonthlyIncome,
			FinancialHealth:     financialHealth(doc.Finance.TotalBalance),
			CrossBotSuggestions: h.suggestsCrossBot(req.UserMessage, doc),
		},
	})
}

func (h *BotHandler) recordExplicitTransaction(r *http.Request, userID string, tx *ExplicitTransaction) *models.UserContext {
	category := tx.Category
	if category == "" {
		category = "general"
	}
	doc, err := h.contexts.RecordTransaction(r.Context(), userID, models.Transaction{
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    category,
		Description: tx.Description,
		Date:        time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("explicit_transaction_record_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		return h.resolveContext(r, userID)
	}
	return doc
}

// applyFinanceSignals folds detected amounts into the document. Updates are
// fail-open; on failure the latest readable document is used as-is.
func (h *BotHandler) applyFinanceSignals(r *http.Request, userID, message string, sig signals.Signals) *models.UserContext {
	var (
		doc *models.UserContext
		err error
	)

	switch {
	case sig.Income != nil:
		current := h.resolveContext(r, userID)
		doc, err = h.contexts.Update(r.Context(), userID, map[string]any{
			"finance": map[string]any{
				"monthlyIncome": *sig.Income,
				"totalBalance":  current.Finance.TotalBalance + *sig.Income,
			},
		})
	case sig.Balance != nil:
		doc, err = h.contexts.Update(r.Context(), userID, map[string]any{
			"finance": map[string]any{"totalBalance": *sig.Balance},
		})
	case sig.Expense != nil:
		category := "general"
		if sig.MedicalExpense {
			category = "healthcare"
		}
		doc, err = h.contexts.RecordTransaction(r.Context(), userID, models.Transaction{
			Type:        string(models.TransactionExpense),
			Amount:      *sig.Expense,
			Category:    category,
			Description: "Expense: " + truncate(message, 50),
			Date:        time.Now().UTC(),
		})
	default:
		return h.resolveContext(r, userID)
	}

	if err != nil {
		h.logger.Warn("finance_signal_update_failed",
			zap.String("user_id", logpkg.SanitizeUserID(userID)),
			zap.Error(err),
		)
		return h.resolveContext(r, userID)
	}
	return doc
}

// suggestsCrossBot reports whether the reply should steer the user toward
// another bot: spend-adjacent topics in the message, or an active illness.
func (h *BotHandler) suggestsCrossBot(message string, doc *models.UserContext) bool {
	if doc.Health.CurrentCondition == models.ConditionSick {
		return true
	}
	lower := strings.ToLower(message)
	for _, kw := range crossBotFinanceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func financialHealth(balance float64) string {
	switch {
	case balance < 1000:
		return "critical"
	case balance < 5000:
		return "moderate"
	default:
		return "healthy"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
