package queue

import (
	"testing"
	"time"
)

func TestNewJob_Defaults(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypePendingAction, "user-1")

	if job.Type != JobTypePendingAction {
		t.Errorf("Expected type %s, got %s", JobTypePendingAction, job.Type)
	}
	if job.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", job.UserID)
	}
	if job.MaxRetries != 3 {
		t.Errorf("Expected 3 max retries, got %d", job.MaxRetries)
	}
	if !job.ShouldProcess() {
		t.Error("Expected a fresh job to be processable")
	}
}

func TestJob_NotBefore(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeContextSweep, "")
	future := time.Now().Add(time.Hour)
	job.NotBefore = &future

	if job.ShouldProcess() {
		t.Error("Expected job with future NotBefore to be deferred")
	}
}

func TestJob_Expiry(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeContextSweep, "")
	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past

	if !job.IsExpired() {
		t.Error("Expected job past NotAfter to be expired")
	}
	if job.ShouldProcess() {
		t.Error("Expected expired job not to be processable")
	}
}

func TestJob_RetryBudget(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypePendingAction, "user-1")
	for i := 0; i < 3; i++ {
		if !job.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("Expected retry budget to be exhausted after 3 attempts")
	}
}
