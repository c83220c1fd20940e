package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oink/internal/amqp"
	"oink/internal/cache"
	"oink/internal/core"
	"oink/internal/log"
)

// BudgetFinder looks up the evaluated budget for one period.
type BudgetFinder interface {
	Find(ctx context.Context, accountID, categoryID int64, period core.YearMonth) (core.EvaluatedBudget, error)
}

// Alert is raised for every budget found overspent after a ledger event.
type Alert struct {
	Budget core.EvaluatedBudget
	Event  *amqp.LedgerEvent
}

// BudgetWatcher reacts to ledger events by re-evaluating the budgets the
// changed transaction falls under and reporting the overspent ones.
type BudgetWatcher struct {
	budgets BudgetFinder
	seen    cache.Cache[time.Time]
	logger  *log.Logger
	alerts  []func(context.Context, Alert)
}

func NewBudgetWatcher(budgets BudgetFinder, seen cache.Cache[time.Time], logger *log.Logger) *BudgetWatcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &BudgetWatcher{
		budgets: budgets,
		seen:    seen,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// OnAlert registers a callback run for each overspent budget.
func (w *BudgetWatcher) OnAlert(fn func(context.Context, Alert)) {
	w.alerts = append(w.alerts, fn)
}

// HandleLedgerEvent processes one delivery. Redelivered event ids are
// skipped; a failed check forgets the id so the retry is processed.
func (w *BudgetWatcher) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	if w.seen != nil && w.seen.Remember(event.ID, time.Now()) {
		w.logger.DebugContext(ctx, "Skipping duplicate ledger event",
			log.FieldEventID, event.ID)
		return nil
	}

	w.logger.DebugContext(ctx, "Processing ledger event",
		log.FieldEventID, event.ID,
		log.FieldEventKind, event.Kind,
		log.FieldTransactionID, event.TransactionID)

	overspent, err := w.Check(ctx, event.AccountID, event.CategoryIDs(), event.Period())
	if err != nil {
		if w.seen != nil {
			w.seen.Delete(event.ID)
		}
		return fmt.Errorf("check budgets for event %s: %w", event.ID, err)
	}
	for _, b := range overspent {
		for _, fn := range w.alerts {
			fn(ctx, Alert{Budget: b, Event: event})
		}
	}
	return nil
}

// Check evaluates the account's budgets for the given categories and month
// and returns those that are overspent. Missing budgets are skipped.
func (w *BudgetWatcher) Check(ctx context.Context, accountID int64, categoryIDs []int64, period core.YearMonth) ([]core.EvaluatedBudget, error) {
	var overspent []core.EvaluatedBudget
	for _, categoryID := range categoryIDs {
		b, err := w.budgets.Find(ctx, accountID, categoryID, period)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !b.Overspent() {
			continue
		}
		w.logger.WarnContext(ctx, "Budget overspent", log.NewFields().
			WithBudget(b.ID, b.Period.String()).
			WithAccount(b.AccountID, b.AccountName).
			WithCategory(&b.CategoryID).
			ToSlice()...)
		overspent = append(overspent, b)
	}
	return overspent, nil
}
