package mcp

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/lifebots/assistant-api/internal/models"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store, nil), store
}

func TestService_Get_DefaultOnAbsence(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	doc, err := svc.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Expected no error for an unknown user, got %v", err)
	}
	if !reflect.DeepEqual(doc, models.DefaultUserContext()) {
		t.Error("Expected the canonical default document for an unknown user")
	}
}

func TestService_Get_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected repeated GETs with no intervening write to return identical documents")
	}
}

func TestService_Get_DefaultNotPersisted(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()

	if _, err := svc.Get(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if _, stored, _ := store.Get(context.Background(), "u1"); stored {
		t.Error("Expected the default document not to be persisted on read")
	}
}

func TestService_Get_AppliesHealthExpiry(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()
	ctx := context.Background()

	yesterday := time.Now().Add(-24 * time.Hour)
	if err := store.Set(ctx, "u1", sickContext(yesterday)); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Health.ActiveIllness != nil {
		t.Error("Expected expired illness to reset on read")
	}

	// The reset must be written back.
	stored, _, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Health.CurrentCondition != models.ConditionHealthy {
		t.Error("Expected the expiry reset to be persisted")
	}
}

func TestService_Update_EndToEndBudgetDerivation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	// Fresh user: POST {finance:{totalBalance:4000}} then GET.
	doc, err := svc.Update(ctx, "fresh", map[string]any{
		"finance": map[string]any{"totalBalance": 4000.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Finance.TotalBalance != 4000 {
		t.Errorf("Expected balance 4000, got %v", doc.Finance.TotalBalance)
	}
	if doc.Preferences.Events.BudgetRange.Max != 800 {
		t.Errorf("Expected derived events budget 800, got %v", doc.Preferences.Events.BudgetRange.Max)
	}

	got, err := svc.Get(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if got.Finance.TotalBalance != 4000 || got.Preferences.Events.BudgetRange.Max != 800 {
		t.Errorf("Expected persisted balance 4000 and budget 800, got %v / %v",
			got.Finance.TotalBalance, got.Preferences.Events.BudgetRange.Max)
	}
}

func TestService_Update_BudgetClampedAtCeiling(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	doc, err := svc.Update(context.Background(), "u1", map[string]any{
		"finance": map[string]any{"totalBalance": 30000.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Preferences.Events.BudgetRange.Max != 5000 {
		t.Errorf("Expected events budget clamped at 5000, got %v", doc.Preferences.Events.BudgetRange.Max)
	}
}

func TestService_Update_NoBalanceChangeKeepsBudget(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u1", map[string]any{
		"finance": map[string]any{"totalBalance": 10000.0},
	}); err != nil {
		t.Fatal(err)
	}

	// An unrelated update must not re-derive or disturb the budget.
	doc, err := svc.Update(ctx, "u1", map[string]any{
		"location": map[string]any{"current": "Madurai"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Preferences.Events.BudgetRange.Max != 2000 {
		t.Errorf("Expected budget to stay 2000, got %v", doc.Preferences.Events.BudgetRange.Max)
	}
	if doc.Location.Current != "Madurai" {
		t.Errorf("Expected location update applied, got %s", doc.Location.Current)
	}
}

func TestService_Update_ExpiredHealthResetBeforeResponse(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()
	ctx := context.Background()

	if err := store.Set(ctx, "u1", sickContext(time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.Update(ctx, "u1", map[string]any{
		"location": map[string]any{"current": "Trichy"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Health.ActiveIllness != nil || doc.Health.CurrentCondition != models.ConditionHealthy {
		t.Error("Expected expired health to reset during an unrelated update")
	}
}

func TestService_ApplyHealthSignals_ExpiryBeforeOnset(t *testing.T) {
	t.Parallel()

	// An expired illness must not block detection of a new one in the same
	// turn: expiry runs first, then onset sees a healthy baseline.
	svc, store := newTestService()
	ctx := context.Background()

	if err := store.Set(ctx, "u1", sickContext(time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.ApplyHealthSignals(ctx, "u1", "I caught a cold", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Health.ActiveIllness == nil {
		t.Fatal("Expected a fresh onset after the stale illness expired")
	}
	if len(doc.Health.Symptoms) != 1 || doc.Health.Symptoms[0] != "I caught a cold" {
		t.Errorf("Expected only the new symptom after reset, got %v", doc.Health.Symptoms)
	}
	if doc.BotInteractions.LastHealthUpdate == nil {
		t.Error("Expected lastHealthUpdate to be stamped")
	}
}

func TestService_RecordTransaction_CapEnforced(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u1", map[string]any{
		"finance": map[string]any{"totalBalance": 100000.0},
	}); err != nil {
		t.Fatal(err)
	}

	var doc *models.UserContext
	var err error
	for i := 0; i < 11; i++ {
		doc, err = svc.RecordTransaction(ctx, "u1", models.Transaction{
			Type: "expense", Amount: 10, Category: "general", Date: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(doc.Finance.RecentTransactions) != models.MaxRecentTransactions {
		t.Errorf("Expected %d transactions after 11 appends, got %d",
			models.MaxRecentTransactions, len(doc.Finance.RecentTransactions))
	}
}

func TestService_ConcurrentUpdatesSerialized(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordTransaction(ctx, "u1", models.Transaction{
				Type: "income", Amount: 1, Date: time.Now(),
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	doc, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	// Per-user serialization means no appended transaction may be lost.
	if len(doc.Finance.RecentTransactions) != models.MaxRecentTransactions {
		t.Errorf("Expected a full capped history after 20 serialized appends, got %d",
			len(doc.Finance.RecentTransactions))
	}
}

func TestService_Sweep_ResetsExpiredUsersOnly(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()
	ctx := context.Background()

	if err := store.Set(ctx, "expired", sickContext(time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "active", sickContext(time.Now().Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	reset, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reset != 1 {
		t.Errorf("Expected exactly 1 reset, got %d", reset)
	}

	active, _, _ := store.Get(ctx, "active")
	if active.Health.ActiveIllness == nil {
		t.Error("Expected the unexpired illness to survive the sweep")
	}
}
