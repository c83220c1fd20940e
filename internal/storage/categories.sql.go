package storage

import (
	"context"
)

const insertCategory = `-- name: InsertCategory :one
INSERT INTO categories (name) VALUES (?)
RETURNING id, name
`

func (q *Queries) InsertCategory(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRowContext(ctx, insertCategory, name)
	var i Category
	err := row.Scan(&i.ID, &i.Name)
	return i, err
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, name FROM categories WHERE id = ?
`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByID, id)
	var i Category
	err := row.Scan(&i.ID, &i.Name)
	return i, err
}

const getCategoryByName = `-- name: GetCategoryByName :one
SELECT id, name FROM categories WHERE name = ?
`

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByName, name)
	var i Category
	err := row.Scan(&i.ID, &i.Name)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, name FROM categories ORDER BY name, id
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
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

const updateCategoryName = `-- name: UpdateCategoryName :execrows
UPDATE categories SET name = ? WHERE id = ?
`

func (q *Queries) UpdateCategoryName(ctx context.Context, id int64, name string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCategoryName, name, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const categoryEffects = `-- name: CategoryEffects :many
SELECT account_id,
       SUM(CASE transaction_type_id WHEN 0 THEN amount ELSE -amount END) AS delta
FROM transactions
WHERE category_id = ?
GROUP BY account_id
ORDER BY account_id
`

// AccountDelta is the summed signed effect of a set of transactions on one
// account.
type AccountDelta struct {
	AccountID int64
	Delta     int64
}

// CategoryEffects sums, per account, what the category's transactions did
// to the balance.
func (q *Queries) CategoryEffects(ctx context.Context, categoryID int64) ([]AccountDelta, error) {
	rows, err := q.db.QueryContext(ctx, categoryEffects, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AccountDelta
	for rows.Next() {
		var i AccountDelta
		if err := rows.Scan(&i.AccountID, &i.Delta); err != nil {
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
