package storage

import (
	"context"
)

const insertBudget = `-- name: InsertBudget :one
INSERT INTO budgets (account_id, category_id, amount, year, month, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertBudgetParams struct {
	AccountID  int64
	CategoryID int64
	Amount     int64
	Year       int64
	Month      int64
	CreatedAt  string
}

func (q *Queries) InsertBudget(ctx context.Context, arg InsertBudgetParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertBudget,
		arg.AccountID,
		arg.CategoryID,
		arg.Amount,
		arg.Year,
		arg.Month,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const selectBudgets = `
SELECT b.id, b.account_id, a.name, b.category_id, c.name,
       b.amount, b.year, b.month, b.created_at
FROM budgets b
JOIN accounts a ON a.id = b.account_id
JOIN categories c ON c.id = b.category_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner, i *Budget) error {
	return s.Scan(
		&i.ID,
		&i.AccountID,
		&i.AccountName,
		&i.CategoryID,
		&i.CategoryName,
		&i.Amount,
		&i.Year,
		&i.Month,
		&i.CreatedAt,
	)
}

const getBudget = `-- name: GetBudget :one` + selectBudgets + `WHERE b.id = ?
`

func (q *Queries) GetBudget(ctx context.Context, id int64) (Budget, error) {
	var i Budget
	err := scanBudget(q.db.QueryRowContext(ctx, getBudget, id), &i)
	return i, err
}

const findBudget = `-- name: FindBudget :one` + selectBudgets + `WHERE b.account_id = ? AND b.category_id = ? AND b.year = ? AND b.month = ?
`

type FindBudgetParams struct {
	AccountID  int64
	CategoryID int64
	Year       int64
	Month      int64
}

func (q *Queries) FindBudget(ctx context.Context, arg FindBudgetParams) (Budget, error) {
	var i Budget
	err := scanBudget(q.db.QueryRowContext(ctx, findBudget,
		arg.AccountID,
		arg.CategoryID,
		arg.Year,
		arg.Month,
	), &i)
	return i, err
}

const deleteBudget = `-- name: DeleteBudget :execrows
DELETE FROM budgets WHERE id = ?
`

func (q *Queries) DeleteBudget(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBudget, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
