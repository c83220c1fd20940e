package storage

import (
	"context"
	"strings"
)

// TransactionFilter narrows ListTransactions and SumTransactions. Nil ids
// and empty bounds are not applied. From is inclusive and To exclusive,
// both in core.TimestampLayout so they compare lexically.
type TransactionFilter struct {
	AccountID  *int64
	CategoryID *int64
	From       string
	To         string
	// Limit caps ListTransactions; negative means no limit.
	Limit int64
}

func (f TransactionFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AccountID != nil {
		conds = append(conds, "t.account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.From != "" {
		conds = append(conds, "t.created_at >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conds = append(conds, "t.created_at < ?")
		args = append(args, f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND ") + "\n", args
}

// ListTransactions returns matching transactions newest first.
func (q *Queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	where, args := f.where()
	query := selectTransactions + where + "ORDER BY t.created_at DESC, t.id DESC\nLIMIT ?"
	args = append(args, f.Limit)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.AccountName,
			&i.TransactionTypeID,
			&i.Description,
			&i.Amount,
			&i.CategoryID,
			&i.CategoryName,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// TransactionTotals are unsigned sums per transaction type.
type TransactionTotals struct {
	Deposits    int64
	Withdrawals int64
}

// Net is the signed balance effect of the summed transactions.
func (t TransactionTotals) Net() int64 {
	return t.Deposits - t.Withdrawals
}

// SumTransactions totals matching transactions by type. Limit is ignored.
func (q *Queries) SumTransactions(ctx context.Context, f TransactionFilter) (TransactionTotals, error) {
	where, args := f.where()
	query := `SELECT
    COALESCE(SUM(CASE t.transaction_type_id WHEN 0 THEN t.amount END), 0),
    COALESCE(SUM(CASE t.transaction_type_id WHEN 1 THEN t.amount END), 0)
FROM transactions t
` + where

	var totals TransactionTotals
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&totals.Deposits, &totals.Withdrawals)
	return totals, err
}

// BudgetFilter narrows ListBudgets. Month keys are year*100+month and both
// bounds are inclusive.
type BudgetFilter struct {
	AccountID *int64
	FromKey   int
	ToKey     int
}

// ListBudgets returns matching budgets ordered by period, account and
// category name.
func (q *Queries) ListBudgets(ctx context.Context, f BudgetFilter) ([]Budget, error) {
	query := selectBudgets + "WHERE (b.year * 100 + b.month) BETWEEN ? AND ?\n"
	args := []any{f.FromKey, f.ToKey}
	if f.AccountID != nil {
		query += "AND b.account_id = ?\n"
		args = append(args, *f.AccountID)
	}
	query += "ORDER BY b.year, b.month, a.name, c.name, b.id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Budget
	for rows.Next() {
		var i Budget
		if err := scanBudget(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
