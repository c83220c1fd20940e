package storage

import (
	"context"
)

const insertTransaction = `-- name: InsertTransaction :one
INSERT INTO transactions (account_id, transaction_type_id, description, amount, category_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertTransactionParams struct {
	AccountID         int64
	TransactionTypeID int64
	Description       string
	Amount            int64
	CategoryID        *int64
	CreatedAt         string
}

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertTransaction,
		arg.AccountID,
		arg.TransactionTypeID,
		arg.Description,
		arg.Amount,
		arg.CategoryID,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const selectTransactions = `
SELECT t.id, t.account_id, a.name, t.transaction_type_id, t.description,
       t.amount, t.category_id, c.name, t.created_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id
LEFT JOIN categories c ON c.id = t.category_id
`

const getTransaction = `-- name: GetTransaction :one` + selectTransactions + `WHERE t.id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.AccountName,
		&i.TransactionTypeID,
		&i.Description,
		&i.Amount,
		&i.CategoryID,
		&i.CategoryName,
		&i.CreatedAt,
	)
	return i, err
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET transaction_type_id = ?, description = ?, amount = ?, category_id = ?
WHERE id = ?
`

type UpdateTransactionParams struct {
	ID                int64
	TransactionTypeID int64
	Description       string
	Amount            int64
	CategoryID        *int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.TransactionTypeID,
		arg.Description,
		arg.Amount,
		arg.CategoryID,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
