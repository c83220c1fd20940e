package services

import (
	"context"
	"fmt"

	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

// BudgetEvaluator manages monthly per-category allotments and derives how
// much of each is left. Balances are recomputed on every read.
type BudgetEvaluator struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewBudgetEvaluator(repo *storage.SQLiteRepository, logger *log.Logger) *BudgetEvaluator {
	if logger == nil {
		logger = log.Discard()
	}
	return &BudgetEvaluator{repo: repo, logger: logger.WithComponent(log.ComponentBudget)}
}

type CreateBudgetParams struct {
	Account  core.AccountRef
	Category core.CategoryRef
	Amount   core.Money
	Period   core.YearMonth
}

// Create sets an allotment for one account, category and month.
func (b *BudgetEvaluator) Create(ctx context.Context, p CreateBudgetParams) (core.Budget, error) {
	if err := p.Amount.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := p.Period.Validate(); err != nil {
		return core.Budget{}, err
	}

	var row storage.Budget
	err := b.repo.WithTx(ctx, func(q *storage.Queries) error {
		account, err := q.GetAccount(ctx, p.Account)
		if err != nil {
			return err
		}
		category, err := q.GetCategory(ctx, p.Category)
		if err != nil {
			return err
		}
		id, err := q.InsertBudget(ctx, storage.InsertBudgetParams{
			AccountID:  account.ID,
			CategoryID: category.ID,
			Amount:     p.Amount.Cents,
			Year:       int64(p.Period.Year),
			Month:      int64(p.Period.Month),
			CreatedAt:  core.FormatTimestamp(b.repo.Now()),
		})
		if err != nil {
			return conflictOr(err, fmt.Sprintf("budget for %s/%s in %s", account.Name, category.Name, p.Period))
		}
		row, err = q.GetBudget(ctx, id)
		return err
	})
	if err != nil {
		return core.Budget{}, err
	}

	budget, err := row.ToCore()
	if err != nil {
		return core.Budget{}, err
	}
	b.logger.InfoContext(ctx, "Budget created", log.NewFields().
		WithOperation(log.OpCreate).
		WithBudget(budget.ID, budget.Period.String()).
		WithAccount(budget.AccountID, budget.AccountName).
		ToSlice()...)
	return budget, nil
}

// Evaluate returns the allotment plus the signed effect of the account's
// transactions in the budget's category dated within its month.
func (b *BudgetEvaluator) Evaluate(ctx context.Context, budget core.Budget) (core.Money, error) {
	return evaluate(ctx, b.repo.Queries(), budget)
}

func evaluate(ctx context.Context, q *storage.Queries, budget core.Budget) (core.Money, error) {
	if err := budget.Period.Validate(); err != nil {
		return core.Money{}, err
	}
	totals, err := q.SumTransactions(ctx, storage.TransactionFilter{
		AccountID:  &budget.AccountID,
		CategoryID: &budget.CategoryID,
		From:       core.FormatTimestamp(budget.Period.Start()),
		To:         core.FormatTimestamp(budget.Period.End()),
	})
	if err != nil {
		return core.Money{}, fmt.Errorf("evaluate budget #%d: %w", budget.ID, err)
	}
	return budget.Amount.Add(core.Cents(totals.Net())), nil
}

func evaluateRows(ctx context.Context, q *storage.Queries, rows []storage.Budget) ([]core.EvaluatedBudget, error) {
	out := make([]core.EvaluatedBudget, 0, len(rows))
	for _, r := range rows {
		budget, err := r.ToCore()
		if err != nil {
			return nil, err
		}
		balance, err := evaluate(ctx, q, budget)
		if err != nil {
			return nil, err
		}
		out = append(out, core.EvaluatedBudget{Budget: budget, Balance: balance})
	}
	return out, nil
}

// ListForAccount returns the account's budgets in the inclusive month
// range, evaluated. Zero bounds are open.
func (b *BudgetEvaluator) ListForAccount(ctx context.Context, ref core.AccountRef, months core.MonthRange) ([]core.EvaluatedBudget, error) {
	if err := months.Validate(); err != nil {
		return nil, err
	}
	q := b.repo.Queries()
	account, err := q.GetAccount(ctx, ref)
	if err != nil {
		return nil, err
	}
	lo, hi := months.Keys()
	rows, err := q.ListBudgets(ctx, storage.BudgetFilter{AccountID: &account.ID, FromKey: lo, ToKey: hi})
	if err != nil {
		return nil, fmt.Errorf("list budgets for account %s: %w", ref, err)
	}
	return evaluateRows(ctx, q, rows)
}

// ListForMonth returns every account's budgets for one month, evaluated.
func (b *BudgetEvaluator) ListForMonth(ctx context.Context, period core.YearMonth) ([]core.EvaluatedBudget, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	q := b.repo.Queries()
	rows, err := q.ListBudgets(ctx, storage.BudgetFilter{FromKey: period.Key(), ToKey: period.Key()})
	if err != nil {
		return nil, fmt.Errorf("list budgets for %s: %w", period, err)
	}
	return evaluateRows(ctx, q, rows)
}

// Find returns the evaluated budget for one account, category and month.
func (b *BudgetEvaluator) Find(ctx context.Context, accountID, categoryID int64, period core.YearMonth) (core.EvaluatedBudget, error) {
	if err := period.Validate(); err != nil {
		return core.EvaluatedBudget{}, err
	}
	q := b.repo.Queries()
	row, err := q.FindBudget(ctx, storage.FindBudgetParams{
		AccountID:  accountID,
		CategoryID: categoryID,
		Year:       int64(period.Year),
		Month:      int64(period.Month),
	})
	if storage.IsNoRows(err) {
		return core.EvaluatedBudget{}, core.NotFoundf("budget for account #%d category #%d in %s", accountID, categoryID, period)
	}
	if err != nil {
		return core.EvaluatedBudget{}, fmt.Errorf("find budget: %w", err)
	}
	evaluated, err := evaluateRows(ctx, q, []storage.Budget{row})
	if err != nil {
		return core.EvaluatedBudget{}, err
	}
	return evaluated[0], nil
}

func (b *BudgetEvaluator) Delete(ctx context.Context, id int64) error {
	n, err := b.repo.Queries().DeleteBudget(ctx, id)
	if err := affected(n, err, fmt.Sprintf("budget #%d", id)); err != nil {
		return err
	}
	b.logger.InfoContext(ctx, "Budget deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldBudgetID, id)
	return nil
}
