package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"oink/internal/amqp"
	"oink/internal/core"
	"oink/internal/storage"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, event *amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) kinds() []amqp.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type fixture struct {
	repo       *storage.SQLiteRepository
	accounts   *AccountStore
	categories *CategoryRegistry
	ledger     *LedgerEngine
	budgets    *BudgetEvaluator
	reports    *ReportAggregator
	events     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "oink.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	events := &recordingPublisher{}
	return &fixture{
		repo:       repo,
		accounts:   NewAccountStore(repo, nil),
		categories: NewCategoryRegistry(repo, nil),
		ledger:     NewLedgerEngine(repo, events, nil),
		budgets:    NewBudgetEvaluator(repo, nil),
		reports:    NewReportAggregator(repo, nil),
		events:     events,
	}
}

// at pins the creation clock to the given local time.
func (f *fixture) at(year int, month time.Month, day int) {
	ts := time.Date(year, month, day, 12, 0, 0, 0, time.Local)
	f.repo.SetClock(func() time.Time { return ts })
}

func (f *fixture) account(t *testing.T, number, name string, start int64) core.Account {
	t.Helper()
	a, err := f.accounts.Create(context.Background(), number, name, core.Cents(start))
	require.NoError(t, err)
	return a
}

func (f *fixture) category(t *testing.T, name string) core.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (f *fixture) record(t *testing.T, account core.Account, typ core.TransactionType, amount int64, desc string, category *core.Category) core.Transaction {
	t.Helper()
	p := RecordParams{
		Account:     core.AccountByID(account.ID),
		Type:        typ,
		Amount:      core.Cents(amount),
		Description: desc,
	}
	if category != nil {
		ref := core.CategoryByID(category.ID)
		p.Category = &ref
	}
	tx, err := f.ledger.Record(context.Background(), p)
	require.NoError(t, err)
	return tx
}

func (f *fixture) balance(t *testing.T, account core.Account) int64 {
	t.Helper()
	b, err := f.accounts.GetBalance(context.Background(), core.AccountByID(account.ID))
	require.NoError(t, err)
	return b.Cents
}

// requireInvariant checks balance == start + sum of signed effects.
func (f *fixture) requireInvariant(t *testing.T, account core.Account, start int64) {
	t.Helper()
	txs, err := f.ledger.ListForAccount(context.Background(), core.AccountByID(account.ID), core.DateRange{}, core.Unlimited)
	require.NoError(t, err)
	want := core.Cents(start)
	for _, tx := range txs {
		want = want.Add(tx.Type.Effect(tx.Amount))
	}
	require.Equal(t, want.Cents, f.balance(t, account), "balance invariant for %s", account.Name)
}

func ptr[T any](v T) *T { return &v }
