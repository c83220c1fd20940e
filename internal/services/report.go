package services

import (
	"context"
	"fmt"

	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

// ReportAggregator builds read-only snapshots of every account.
type ReportAggregator struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewReportAggregator(repo *storage.SQLiteRepository, logger *log.Logger) *ReportAggregator {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportAggregator{repo: repo, logger: logger.WithComponent(log.ComponentReport)}
}

// Snapshot reports each account over the inclusive date range r. The
// balance is as of the end of r: the live balance minus the net effect of
// everything dated after it. All figures are read in one transaction.
func (a *ReportAggregator) Snapshot(ctx context.Context, r core.DateRange) (*core.Snapshot, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.Bounds()
	snap := &core.Snapshot{GeneratedAt: a.repo.Now()}
	if !r.From.IsZero() {
		snap.From = r.From.Format(core.DateLayout)
	}
	if !r.To.IsZero() {
		snap.To = r.To.Format(core.DateLayout)
	}
	lo, hi := r.Months().Keys()

	err := a.repo.WithTx(ctx, func(q *storage.Queries) error {
		accounts, err := q.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		snap.Accounts = make([]core.AccountSnapshot, 0, len(accounts))

		for _, row := range accounts {
			account, err := row.ToCore()
			if err != nil {
				return err
			}
			as := core.AccountSnapshot{
				ID:        account.ID,
				Number:    account.Number,
				Name:      account.Name,
				CreatedAt: account.CreatedAt,
				Balance:   account.Balance,
			}

			if to != "" {
				later, err := q.SumTransactions(ctx, storage.TransactionFilter{AccountID: &row.ID, From: to})
				if err != nil {
					return fmt.Errorf("sum transactions after %s: %w", snap.To, err)
				}
				as.Balance = as.Balance.Sub(core.Cents(later.Net()))
			}

			window := storage.TransactionFilter{AccountID: &row.ID, From: from, To: to, Limit: int64(core.Unlimited)}
			totals, err := q.SumTransactions(ctx, window)
			if err != nil {
				return fmt.Errorf("sum transactions for account #%d: %w", row.ID, err)
			}
			as.TotalIncome = core.Cents(totals.Deposits)
			as.TotalExpenses = core.Cents(totals.Withdrawals)

			txRows, err := q.ListTransactions(ctx, window)
			if err != nil {
				return fmt.Errorf("list transactions for account #%d: %w", row.ID, err)
			}
			if as.Transactions, err = storage.TransactionsToCore(txRows); err != nil {
				return err
			}

			budgetRows, err := q.ListBudgets(ctx, storage.BudgetFilter{AccountID: &row.ID, FromKey: lo, ToKey: hi})
			if err != nil {
				return fmt.Errorf("list budgets for account #%d: %w", row.ID, err)
			}
			if as.Budgets, err = evaluateRows(ctx, q, budgetRows); err != nil {
				return err
			}

			snap.Accounts = append(snap.Accounts, as)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.DebugContext(ctx, "Snapshot built",
		log.FieldOperation, log.OpReport,
		"accounts", len(snap.Accounts),
		"from", snap.From,
		"to", snap.To)
	return snap, nil
}
