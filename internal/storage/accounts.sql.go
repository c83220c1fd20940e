package storage

import (
	"context"
)

const insertAccount = `-- name: InsertAccount :one
INSERT INTO accounts (account_number, name, balance, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, account_number, name, balance, created_at
`

type InsertAccountParams struct {
	AccountNumber string
	Name          string
	Balance       int64
	CreatedAt     string
}

func (q *Queries) InsertAccount(ctx context.Context, arg InsertAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, insertAccount,
		arg.AccountNumber,
		arg.Name,
		arg.Balance,
		arg.CreatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Name,
		&i.Balance,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, account_number, name, balance, created_at
FROM accounts
WHERE id = ?
`

func (q *Queries) GetAccountByID(ctx context.Context, id int64) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Name,
		&i.Balance,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountByName = `-- name: GetAccountByName :one
SELECT id, account_number, name, balance, created_at
FROM accounts
WHERE name = ?
`

func (q *Queries) GetAccountByName(ctx context.Context, name string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByName, name)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Name,
		&i.Balance,
		&i.CreatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, account_number, name, balance, created_at
FROM accounts
ORDER BY name, id
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.AccountNumber,
			&i.Name,
			&i.Balance,
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

const accountNameTaken = `-- name: AccountNameTaken :one
SELECT EXISTS (SELECT 1 FROM accounts WHERE name = ? AND id <> ?)
`

// AccountNameTaken reports whether an account other than exceptID owns name.
func (q *Queries) AccountNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	row := q.db.QueryRowContext(ctx, accountNameTaken, name, exceptID)
	var taken bool
	err := row.Scan(&taken)
	return taken, err
}

const accountNumberTaken = `-- name: AccountNumberTaken :one
SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = ?)
`

func (q *Queries) AccountNumberTaken(ctx context.Context, number string) (bool, error) {
	row := q.db.QueryRowContext(ctx, accountNumberTaken, number)
	var taken bool
	err := row.Scan(&taken)
	return taken, err
}

const updateAccountName = `-- name: UpdateAccountName :execrows
UPDATE accounts SET name = ? WHERE id = ?
`

func (q *Queries) UpdateAccountName(ctx context.Context, id int64, name string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountName, name, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setAccountBalance = `-- name: SetAccountBalance :execrows
UPDATE accounts SET balance = ? WHERE id = ?
`

func (q *Queries) SetAccountBalance(ctx context.Context, id int64, balance int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, setAccountBalance, balance, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const addAccountBalance = `-- name: AddAccountBalance :execrows
UPDATE accounts SET balance = balance + ? WHERE id = ?
`

// AddAccountBalance applies a signed delta to the stored balance.
func (q *Queries) AddAccountBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, addAccountBalance, delta, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = ?
`

func (q *Queries) DeleteAccount(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
