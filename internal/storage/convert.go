package storage

import (
	"fmt"
	"time"

	"oink/internal/core"
)

func (a Account) ToCore() (core.Account, error) {
	created, err := core.ParseTimestamp(a.CreatedAt)
	if err != nil {
		return core.Account{}, fmt.Errorf("account %d created_at: %w", a.ID, err)
	}
	return core.Account{
		ID:        a.ID,
		Number:    a.AccountNumber,
		Name:      a.Name,
		Balance:   core.Cents(a.Balance),
		CreatedAt: created,
	}, nil
}

func (c Category) ToCore() core.Category {
	return core.Category{ID: c.ID, Name: c.Name}
}

func (t Transaction) ToCore() (core.Transaction, error) {
	created, err := core.ParseTimestamp(t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d created_at: %w", t.ID, err)
	}
	tx := core.Transaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		AccountName: t.AccountName,
		Type:        core.TransactionType(t.TransactionTypeID),
		Description: t.Description,
		Amount:      core.Cents(t.Amount),
		CategoryID:  t.CategoryID,
		CreatedAt:   created,
	}
	if t.CategoryName != nil {
		tx.CategoryName = *t.CategoryName
	}
	return tx, nil
}

func (b Budget) ToCore() (core.Budget, error) {
	created, err := core.ParseTimestamp(b.CreatedAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %d created_at: %w", b.ID, err)
	}
	return core.Budget{
		ID:           b.ID,
		AccountID:    b.AccountID,
		AccountName:  b.AccountName,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		Amount:       core.Cents(b.Amount),
		Period:       core.YearMonth{Year: int(b.Year), Month: time.Month(b.Month)},
		CreatedAt:    created,
	}, nil
}

// TransactionsToCore converts a row slice, preserving order.
func TransactionsToCore(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.ToCore()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
