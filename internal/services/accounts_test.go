package services

import (
	"context"
	"testing"

	"oink/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStoreCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		number string
		acct   string
		start  int64
	}{
		{"zero number", "0", "Checking", 0},
		{"non numeric number", "12a", "Checking", 0},
		{"empty number", "", "Checking", 0},
		{"blank name", "100", "   ", 0},
		{"negative start", "100", "Checking", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Create(ctx, tt.number, tt.acct, core.Cents(tt.start))
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}

	accounts, err := f.accounts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAccountStoreCreateConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "100", "Checking", 0)

	_, err := f.accounts.Create(ctx, "200", "Checking", core.Cents(0))
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.accounts.Create(ctx, "100", "Savings", core.Cents(0))
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.accounts.Create(ctx, "200", "Savings", core.Cents(0))
	assert.NoError(t, err)
}

func TestAccountStoreLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.account(t, "00042", "Checking", 1234)

	byName, err := f.accounts.Get(ctx, core.AccountByName("Checking"))
	require.NoError(t, err)
	assert.Equal(t, created, byName)
	assert.Equal(t, "00042", byName.Number)

	balance, err := f.accounts.GetBalance(ctx, core.AccountByID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, core.Cents(1234), balance)

	_, err = f.accounts.Get(ctx, core.AccountByID(created.ID+1))
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.accounts.GetBalance(ctx, core.AccountByName("Nope"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountStoreSetBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.account(t, "1", "Checking", 0)

	require.NoError(t, f.accounts.SetBalance(ctx, core.AccountByName("Checking"), core.Cents(-50)))
	assert.Equal(t, int64(-50), f.balance(t, a))

	err := f.accounts.SetBalance(ctx, core.AccountByID(999), core.Cents(1))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountStoreRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 0)
	f.account(t, "2", "Savings", 0)

	renamed, err := f.accounts.Rename(ctx, checking.ID, "Everyday")
	require.NoError(t, err)
	assert.Equal(t, "Everyday", renamed.Name)

	same, err := f.accounts.Rename(ctx, checking.ID, "Everyday")
	require.NoError(t, err)
	assert.Equal(t, renamed, same)

	_, err = f.accounts.Rename(ctx, checking.ID, "Savings")
	assert.ErrorIs(t, err, core.ErrConflict)
	_, err = f.accounts.Rename(ctx, checking.ID, "")
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = f.accounts.Rename(ctx, 999, "Other")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountStoreDeleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "1", "Savings", 0)
	checking := f.account(t, "2", "Checking", 0)
	f.account(t, "3", "Brokerage", 0)
	f.record(t, checking, core.Deposit, 100, "pay", nil)

	accounts, err := f.accounts.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Brokerage", "Checking", "Savings"}, names)

	require.NoError(t, f.accounts.Delete(ctx, checking.ID))
	assert.ErrorIs(t, f.accounts.Delete(ctx, checking.ID), core.ErrNotFound)

	txs, err := f.ledger.ListAll(ctx, core.Unlimited, core.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}
