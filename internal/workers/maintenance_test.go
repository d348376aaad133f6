package workers

import (
	"context"
	"testing"
	"time"

	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/queue"
)

func sickDoc(expiresAt time.Time) *models.UserContext {
	doc := models.DefaultUserContext()
	illness := "reported_symptoms"
	started := expiresAt.Add(-models.IllnessDuration)
	doc.Health.ActiveIllness = &illness
	doc.Health.StartedAt = &started
	doc.Health.ExpiresAt = &expiresAt
	doc.Health.CurrentCondition = models.ConditionSick
	return doc
}

func TestProcessJob_Sweep(t *testing.T) {
	t.Parallel()

	store := mcp.NewMemoryStore()
	svc := mcp.NewService(store, nil)
	ctx := context.Background()

	if err := store.Set(ctx, "stale", sickDoc(time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}

	worker := NewMaintenanceWorker(svc, nil)
	if err := worker.ProcessJob(ctx, queue.NewJob(queue.JobTypeContextSweep, "")); err != nil {
		t.Fatalf("Expected sweep to succeed, got %v", err)
	}

	doc, _, err := store.Get(ctx, "stale")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Health.CurrentCondition != models.ConditionHealthy {
		t.Error("Expected the sweep to reset the expired illness")
	}
}

func TestProcessJob_PendingActions(t *testing.T) {
	t.Parallel()

	store := mcp.NewMemoryStore()
	svc := mcp.NewService(store, nil)
	ctx := context.Background()

	action := models.PendingAction{Bot: "recipes", Action: "suggest_light_meals", CreatedAt: time.Now()}
	if err := svc.PushPendingAction(ctx, "u1", action); err != nil {
		t.Fatal(err)
	}

	worker := NewMaintenanceWorker(svc, nil)
	if err := worker.ProcessJob(ctx, queue.NewJob(queue.JobTypePendingAction, "u1")); err != nil {
		t.Fatalf("Expected pending action job to succeed, got %v", err)
	}

	doc, _, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.BotInteractions.PendingActions) != 0 {
		t.Errorf("Expected pending actions drained, got %d", len(doc.BotInteractions.PendingActions))
	}
	if len(doc.BotInteractions.CrossBotRecommendations) != 1 {
		t.Fatalf("Expected 1 cross-bot recommendation, got %d", len(doc.BotInteractions.CrossBotRecommendations))
	}
	if doc.BotInteractions.CrossBotRecommendations[0] != "recipes: suggest_light_meals" {
		t.Errorf("Unexpected recommendation: %s", doc.BotInteractions.CrossBotRecommendations[0])
	}
}

func TestProcessJob_UnknownType(t *testing.T) {
	t.Parallel()

	worker := NewMaintenanceWorker(mcp.NewService(mcp.NewMemoryStore(), nil), nil)
	if err := worker.ProcessJob(context.Background(), queue.NewJob("bogus", "")); err == nil {
		t.Error("Expected an error for an unknown job type")
	}
}

func TestProcessJob_PendingActionsMissingUser(t *testing.T) {
	t.Parallel()

	worker := NewMaintenanceWorker(mcp.NewService(mcp.NewMemoryStore(), nil), nil)
	if err := worker.ProcessJob(context.Background(), queue.NewJob(queue.JobTypePendingAction, "")); err == nil {
		t.Error("Expected an error when user id is missing")
	}
}
