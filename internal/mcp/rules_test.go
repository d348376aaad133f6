package mcp

import (
	"fmt"
	"testing"
	"time"

	"github.com/lifebots/assistant-api/internal/models"
)

func sickContext(expiresAt time.Time) *models.UserContext {
	doc := models.DefaultUserContext()
	illness := "reported_symptoms"
	started := expiresAt.Add(-models.IllnessDuration)
	doc.Health.ActiveIllness = &illness
	doc.Health.Symptoms = []string{"I have a fever"}
	doc.Health.StartedAt = &started
	doc.Health.ExpiresAt = &expiresAt
	doc.Health.CurrentCondition = models.ConditionSick
	return doc
}

func TestExpireHealth_PastExpiryResetsToBaseline(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := sickContext(now.Add(-24 * time.Hour))

	if !ExpireHealth(doc, now) {
		t.Fatal("Expected expiry to fire for a past expiresAt")
	}

	if doc.Health.ActiveIllness != nil {
		t.Errorf("Expected activeIllness to be nil, got %v", *doc.Health.ActiveIllness)
	}
	if len(doc.Health.Symptoms) != 0 {
		t.Errorf("Expected symptoms to be cleared, got %v", doc.Health.Symptoms)
	}
	if doc.Health.StartedAt != nil || doc.Health.ExpiresAt != nil {
		t.Error("Expected startedAt and expiresAt to be cleared")
	}
	if doc.Health.CurrentCondition != models.ConditionHealthy {
		t.Errorf("Expected condition healthy, got %s", doc.Health.CurrentCondition)
	}
}

func TestExpireHealth_FutureExpiryUntouched(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := sickContext(now.Add(24 * time.Hour))

	if ExpireHealth(doc, now) {
		t.Error("Expected no expiry for a future expiresAt")
	}
	if doc.Health.ActiveIllness == nil {
		t.Error("Expected illness to remain active")
	}
}

func TestApplyHealthSignals_OnsetSetsSevenDayExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := models.DefaultUserContext()

	changed := ApplyHealthSignals(doc, "I have a fever and headache", true, false, now)
	if !changed {
		t.Fatal("Expected onset to change the document")
	}
	if doc.Health.ActiveIllness == nil || *doc.Health.ActiveIllness != "reported_symptoms" {
		t.Errorf("Expected activeIllness reported_symptoms, got %v", doc.Health.ActiveIllness)
	}
	if len(doc.Health.Symptoms) != 1 || doc.Health.Symptoms[0] != "I have a fever and headache" {
		t.Errorf("Expected the triggering message in symptoms, got %v", doc.Health.Symptoms)
	}
	if doc.Health.ExpiresAt == nil || !doc.Health.ExpiresAt.Equal(now.Add(models.IllnessDuration)) {
		t.Errorf("Expected expiresAt now+7d, got %v", doc.Health.ExpiresAt)
	}
	if doc.Health.CurrentCondition != models.ConditionSick {
		t.Errorf("Expected condition sick, got %s", doc.Health.CurrentCondition)
	}
}

func TestApplyHealthSignals_RecoveryWinsWhileSick(t *testing.T) {
	t.Parallel()

	// A message carrying both a recovery and an illness keyword while sick:
	// the documented policy is that recovery wins for that turn.
	now := time.Now()
	doc := sickContext(now.Add(48 * time.Hour))

	changed := ApplyHealthSignals(doc, "I'm feeling better now but I still had a fever yesterday", true, true, now)
	if !changed {
		t.Fatal("Expected recovery to change the document")
	}
	if doc.Health.ActiveIllness != nil {
		t.Errorf("Expected recovery to win, got activeIllness=%v", *doc.Health.ActiveIllness)
	}
	if doc.Health.CurrentCondition != models.ConditionHealthy {
		t.Errorf("Expected condition healthy, got %s", doc.Health.CurrentCondition)
	}
}

func TestApplyHealthSignals_RecoveryIgnoredWhenHealthy(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	if ApplyHealthSignals(doc, "I'm fine", false, true, time.Now()) {
		t.Error("Expected no change for a recovery keyword with no active illness")
	}
}

func TestApplyHealthSignals_OnsetIgnoredWhileSick(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := sickContext(now.Add(48 * time.Hour))
	before := doc.Health.ExpiresAt

	if ApplyHealthSignals(doc, "still have a cough", true, false, now) {
		t.Error("Expected no change when an illness is already active")
	}
	if !doc.Health.ExpiresAt.Equal(*before) {
		t.Error("Expected existing expiry to be untouched")
	}
}

func TestDeriveEventsBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		balance float64
		want    float64
	}{
		{balance: 30000, want: 5000}, // clamped at ceiling
		{balance: 10000, want: 2000},
		{balance: 4000, want: 800},
		{balance: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("balance_%v", tt.balance), func(t *testing.T) {
			doc := models.DefaultUserContext()
			doc.Finance.TotalBalance = tt.balance
			DeriveEventsBudget(doc)
			if got := doc.Preferences.Events.BudgetRange.Max; got != tt.want {
				t.Errorf("Expected events budget max %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAppendTransaction_CapsAtTenMostRecentFirst(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 100000

	for i := 1; i <= 11; i++ {
		AppendTransaction(doc, models.Transaction{
			Type:        "expense",
			Amount:      float64(i),
			Category:    "general",
			Description: fmt.Sprintf("tx %d", i),
			Date:        time.Now(),
		})
	}

	history := doc.Finance.RecentTransactions
	if len(history) != models.MaxRecentTransactions {
		t.Fatalf("Expected exactly %d transactions, got %d", models.MaxRecentTransactions, len(history))
	}
	if history[0].Description != "tx 11" {
		t.Errorf("Expected most recent transaction first, got %s", history[0].Description)
	}
	if history[len(history)-1].Description != "tx 2" {
		t.Errorf("Expected oldest entry (tx 1) evicted, tail is %s", history[len(history)-1].Description)
	}
}

func TestAppendTransaction_ExpenseClampsBalanceAtZero(t *testing.T) {
	t.Parallel()

	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 50

	AppendTransaction(doc, models.Transaction{Type: "expense", Amount: 200, Date: time.Now()})

	if doc.Finance.TotalBalance != 0 {
		t.Errorf("Expected balance clamped at 0, got %v", doc.Finance.TotalBalance)
	}
}

func TestRecordEventAttendance(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 1000

	RecordEventAttendance(doc, models.EventRecord{Name: "Food Festival", Cost: 300, Date: now}, now)

	if doc.Finance.TotalBalance != 700 {
		t.Errorf("Expected balance 700, got %v", doc.Finance.TotalBalance)
	}
	if len(doc.EventsHistory.Attended) != 1 {
		t.Fatalf("Expected 1 attended event, got %d", len(doc.EventsHistory.Attended))
	}
	if doc.EventsHistory.BudgetSpent != 300 {
		t.Errorf("Expected budgetSpent 300, got %v", doc.EventsHistory.BudgetSpent)
	}
	if len(doc.Finance.Expenses) != 1 || doc.Finance.Expenses[0].Type != "entertainment" {
		t.Errorf("Expected an entertainment expense mirror, got %v", doc.Finance.Expenses)
	}
	if doc.EventsHistory.LastEventDate == nil {
		t.Error("Expected lastEventDate to be set")
	}
}

func TestRecordEventAttendance_ClampsBalanceAtZero(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := models.DefaultUserContext()
	doc.Finance.TotalBalance = 100

	RecordEventAttendance(doc, models.EventRecord{Name: "Concert", Cost: 2500, Date: now}, now)

	if doc.Finance.TotalBalance != 0 {
		t.Errorf("Expected balance clamped at 0, got %v", doc.Finance.TotalBalance)
	}
}
