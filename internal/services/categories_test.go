package services

import (
	"context"
	"testing"
	"time"

	"oink/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRegistry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	food := f.category(t, "Food")
	f.category(t, "Bills")

	_, err := f.categories.Create(ctx, "Food")
	assert.ErrorIs(t, err, core.ErrConflict)
	_, err = f.categories.Create(ctx, " ")
	assert.ErrorIs(t, err, core.ErrValidation)

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bills", list[0].Name)

	got, err := f.categories.Get(ctx, core.CategoryByName("Food"))
	require.NoError(t, err)
	assert.Equal(t, food, got)

	renamed, err := f.categories.Rename(ctx, core.CategoryByID(food.ID), "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", renamed.Name)
	_, err = f.categories.Rename(ctx, core.CategoryByID(food.ID), "Bills")
	assert.ErrorIs(t, err, core.ErrConflict)
	_, err = f.categories.Rename(ctx, core.CategoryByName("Food"), "Other")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCategoryDeleteKeepsBalancesConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)
	savings := f.account(t, "2", "Savings", 0)
	food := f.category(t, "Food")
	rent := f.category(t, "Rent")

	f.record(t, checking, core.Withdrawal, 300, "Groceries", &food)
	f.record(t, checking, core.Deposit, 50, "Refund", &food)
	f.record(t, checking, core.Withdrawal, 400, "Rent", &rent)
	f.record(t, savings, core.Withdrawal, 20, "Snack", &food)
	_, err := f.budgets.Create(ctx, CreateBudgetParams{
		Account: core.AccountByID(checking.ID), Category: core.CategoryByID(food.ID),
		Amount: core.Cents(100), Period: core.YearMonthOf(time.Now()),
	})
	require.NoError(t, err)

	require.NoError(t, f.categories.Delete(ctx, food.ID))
	assert.ErrorIs(t, f.categories.Delete(ctx, food.ID), core.ErrNotFound)

	assert.Equal(t, int64(600), f.balance(t, checking))
	assert.Equal(t, int64(0), f.balance(t, savings))
	f.requireInvariant(t, checking, 1000)
	f.requireInvariant(t, savings, 0)

	budgets, err := f.budgets.ListForAccount(ctx, core.AccountByID(checking.ID), core.MonthRange{})
	require.NoError(t, err)
	assert.Empty(t, budgets)
}
