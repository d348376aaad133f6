package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/models"
	"go.uber.org/zap"
)

// Service coordinates the read-merge-write cycle every bot performs against
// the shared document. Cycles for the same user are serialized with a
// per-user mutex, so two bots updating overlapping sub-trees in-process
// cannot lose each other's writes. Across processes the store remains
// last-writer-wins; the deployment runs a single API writer.
type Service struct {
	store  Store
	logger *zap.Logger
	locks  sync.Map // userID -> *sync.Mutex
	now    func() time.Time
}

// NewService creates a context service over the given store.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) userLock(userID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Get returns the user's document, materializing the default when none is
// stored. Health auto-expiry is evaluated on every read; when it fires on a
// stored document the reset is written back best-effort.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserContext, error) {
	doc, stored, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if ExpireHealth(doc, s.now()) && stored {
		if err := s.store.Set(ctx, userID, doc); err != nil {
			s.logger.Warn("failed_to_persist_health_expiry",
				zap.String("user_id", logpkg.SanitizeUserID(userID)),
				zap.Error(err),
			)
		} else {
			s.logger.Info("auto_reset_health_status", zap.String("user_id", logpkg.SanitizeUserID(userID)))
		}
	}

	return doc, nil
}

// Update folds a partial update document into the stored document: resolve
// or default, deep merge, derived-state rules, persist. Returns the full
// resulting document.
func (s *Service) Update(ctx context.Context, userID string, update map[string]any) (*models.UserContext, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	current, _, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentMap, err := current.ToMap()
	if err != nil {
		return nil, fmt.Errorf("failed to encode current context: %w", err)
	}

	merged := Merge(currentMap, update)
	doc, err := models.ContextFromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to decode merged context: %w", err)
	}

	applyWriteRules(doc, update, s.now())

	if err := s.store.Set(ctx, userID, doc); err != nil {
		return nil, err
	}

	s.logger.Debug("updated_user_context",
		zap.String("user_id", logpkg.SanitizeUserID(userID)),
		zap.String("health", doc.Health.CurrentCondition),
		zap.Float64("balance", doc.Finance.TotalBalance),
		zap.Float64("events_budget_max", doc.Preferences.Events.BudgetRange.Max),
	)

	return doc, nil
}

// ApplyHealthSignals runs the health rule chain for an inbound message:
// expiry first, then recovery/onset detection. Persists only when the
// document changed. Returns the resulting document.
func (s *Service) ApplyHealthSignals(ctx context.Context, userID, message string, illness, recovery bool) (*models.UserContext, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, _, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	changed := ExpireHealth(doc, now)
	if ApplyHealthSignals(doc, message, illness, recovery, now) {
		changed = true
	}

	if changed {
		doc.BotInteractions.LastHealthUpdate = &now
		if err := s.store.Set(ctx, userID, doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// RecordTransaction appends a transaction to the bounded history and
// persists the result.
func (s *Service) RecordTransaction(ctx context.Context, userID string, tx models.Transaction) (*models.UserContext, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, _, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ExpireHealth(doc, now)
	AppendTransaction(doc, tx)
	doc.BotInteractions.LastFinanceCheck = &now
	doc.Finance.LastUpdated = &now

	if err := s.store.Set(ctx, userID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RecordEventAttendance records an attended event, debiting the balance and
// mirroring the cost into finance.expenses.
func (s *Service) RecordEventAttendance(ctx context.Context, userID string, event models.EventRecord) (*models.UserContext, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, _, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ExpireHealth(doc, now)
	RecordEventAttendance(doc, event, now)
	doc.BotInteractions.LastEventsSearch = &now

	if err := s.store.Set(ctx, userID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PushPendingAction queues a cross-bot action on the user's document.
func (s *Service) PushPendingAction(ctx context.Context, userID string, action models.PendingAction) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, _, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	doc.BotInteractions.PendingActions = append(doc.BotInteractions.PendingActions, action)
	return s.store.Set(ctx, userID, doc)
}

// TakePendingActions atomically drains the user's queued cross-bot actions,
// promoting each to a recommendation the bots weave into their next reply.
func (s *Service) TakePendingActions(ctx context.Context, userID string) ([]models.PendingAction, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, stored, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !stored || len(doc.BotInteractions.PendingActions) == 0 {
		return nil, nil
	}

	actions := doc.BotInteractions.PendingActions
	doc.BotInteractions.PendingActions = nil
	for _, action := range actions {
		doc.BotInteractions.CrossBotRecommendations = append(
			doc.BotInteractions.CrossBotRecommendations,
			fmt.Sprintf("%s: %s", action.Bot, action.Action),
		)
	}
	if err := s.store.Set(ctx, userID, doc); err != nil {
		return nil, err
	}
	return actions, nil
}

// Reset overwrites the user's document with the canonical default.
func (s *Service) Reset(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Set(ctx, userID, models.DefaultUserContext())
}

// Sweep applies health auto-expiry across every stored document. Run by the
// maintenance worker so stale illnesses reset even for idle users.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	reset := 0
	err := s.store.ForEachUser(ctx, func(userID string) error {
		lock := s.userLock(userID)
		lock.Lock()
		defer lock.Unlock()

		doc, stored, err := s.store.Get(ctx, userID)
		if err != nil {
			return err
		}
		if !stored || !ExpireHealth(doc, s.now()) {
			return nil
		}
		if err := s.store.Set(ctx, userID, doc); err != nil {
			return err
		}
		reset++
		return nil
	})
	return reset, err
}
