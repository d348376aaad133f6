package mcp

import (
	"fmt"
	"math"
	"time"

	"github.com/lifebots/assistant-api/internal/models"
)

const (
	// EventsBudgetShare is the fraction of total balance reserved for events.
	EventsBudgetShare = 0.2
	// EventsBudgetCeiling caps the derived events budget.
	EventsBudgetCeiling = 5000
)

// ExpireHealth resets health to the healthy baseline when expiresAt has
// passed. Returns true if a reset happened. Must run before onset/recovery
// detection so a stale illness does not block a new one in the same turn.
func ExpireHealth(doc *models.UserContext, now time.Time) bool {
	if doc.Health.ExpiresAt == nil || !doc.Health.ExpiresAt.Before(now) {
		return false
	}
	resetHealth(&doc.Health)
	return true
}

// ApplyHealthSignals folds illness-onset and recovery detection into the
// document. When the user is sick and the message carries both a recovery
// and an illness keyword, recovery wins for that turn: the reset applies
// and onset detection is suppressed until the next message.
// Returns true if the health sub-tree changed.
func ApplyHealthSignals(doc *models.UserContext, message string, illness, recovery bool, now time.Time) bool {
	if doc.Health.ActiveIllness != nil {
		if recovery {
			resetHealth(&doc.Health)
			return true
		}
		return false
	}

	if illness {
		active := "reported_symptoms"
		expires := now.Add(models.IllnessDuration)
		started := now
		doc.Health.ActiveIllness = &active
		doc.Health.Symptoms = append(doc.Health.Symptoms, message)
		doc.Health.StartedAt = &started
		doc.Health.ExpiresAt = &expires
		doc.Health.CurrentCondition = models.ConditionSick
		return true
	}

	return false
}

func resetHealth(h *models.HealthContext) {
	h.ActiveIllness = nil
	h.Symptoms = []string{}
	h.StartedAt = nil
	h.ExpiresAt = nil
	h.CurrentCondition = models.ConditionHealthy
}

// DeriveEventsBudget recomputes the events budget ceiling from the total
// balance: 20% of balance, clamped to [0, 5000]. Called whenever a finance
// update sets totalBalance.
func DeriveEventsBudget(doc *models.UserContext) {
	max := doc.Finance.TotalBalance * EventsBudgetShare
	if max < 0 {
		max = 0
	}
	if max > EventsBudgetCeiling {
		max = EventsBudgetCeiling
	}
	doc.Preferences.Events.BudgetRange.Max = max
}

// AppendTransaction prepends a transaction to the bounded history, evicting
// the oldest entry past the cap, and debits the balance. The balance clamp
// at zero is applied uniformly here and in RecordEventAttendance.
func AppendTransaction(doc *models.UserContext, tx models.Transaction) {
	history := append([]models.Transaction{tx}, doc.Finance.RecentTransactions...)
	if len(history) > models.MaxRecentTransactions {
		history = history[:models.MaxRecentTransactions]
	}
	doc.Finance.RecentTransactions = history

	switch tx.Type {
	case string(models.TransactionExpense):
		doc.Finance.TotalBalance = math.Max(0, doc.Finance.TotalBalance-tx.Amount)
		DeriveEventsBudget(doc)
	case string(models.TransactionIncome):
		doc.Finance.TotalBalance += tx.Amount
		DeriveEventsBudget(doc)
	}
}

// RecordEventAttendance appends an attended event to the history, debits the
// balance (clamped at zero), and mirrors the cost into finance.expenses.
func RecordEventAttendance(doc *models.UserContext, event models.EventRecord, now time.Time) {
	doc.EventsHistory.Attended = append(doc.EventsHistory.Attended, event)
	doc.EventsHistory.BudgetSpent += event.Cost
	doc.EventsHistory.LastEventDate = &now

	doc.Finance.TotalBalance = math.Max(0, doc.Finance.TotalBalance-event.Cost)
	doc.Finance.Expenses = append(doc.Finance.Expenses, models.Expense{
		Type:        "entertainment",
		Amount:      event.Cost,
		Description: fmt.Sprintf("Event: %s", event.Name),
		Date:        now,
	})
	DeriveEventsBudget(doc)
}

// updateSetsBalance reports whether a raw partial update touches
// finance.totalBalance, which triggers events-budget derivation.
func updateSetsBalance(update map[string]any) bool {
	finance, ok := update["finance"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = finance["totalBalance"]
	return ok
}

// applyWriteRules runs the derived-state rules that fire around a merge:
// events-budget derivation when the update set totalBalance, then health
// auto-expiry on the merged result.
func applyWriteRules(doc *models.UserContext, update map[string]any, now time.Time) {
	if updateSetsBalance(update) {
		DeriveEventsBudget(doc)
	}
	ExpireHealth(doc, now)
}
