package services

import (
	"context"
	"testing"
	"time"

	"oink/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(2023, time.December, 1)
	checking := f.account(t, "100", "Checking", 1000)
	savings := f.account(t, "200", "Savings", 500)
	food := f.category(t, "Food")

	_, err := f.budgets.Create(ctx, CreateBudgetParams{
		Account: core.AccountByID(checking.ID), Category: core.CategoryByID(food.ID),
		Amount: core.Cents(3000), Period: core.YearMonth{Year: 2024, Month: time.January},
	})
	require.NoError(t, err)
	_, err = f.budgets.Create(ctx, CreateBudgetParams{
		Account: core.AccountByID(checking.ID), Category: core.CategoryByID(food.ID),
		Amount: core.Cents(3000), Period: core.YearMonth{Year: 2024, Month: time.March},
	})
	require.NoError(t, err)

	f.at(2023, time.December, 20)
	f.record(t, checking, core.Deposit, 200, "Before range", nil)
	f.at(2024, time.January, 5)
	f.record(t, checking, core.Deposit, 5000, "Paycheck", nil)
	f.record(t, checking, core.Withdrawal, 1200, "Groceries", &food)
	f.at(2024, time.January, 31)
	f.record(t, checking, core.Withdrawal, 300, "Last day", &food)
	f.at(2024, time.February, 1)
	f.record(t, checking, core.Withdrawal, 700, "After range", &food)
	f.record(t, savings, core.Deposit, 50, "After range", nil)

	f.at(2024, time.March, 1)
	r, err := core.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	snap, err := f.reports.Snapshot(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", snap.From)
	assert.Equal(t, "2024-01-31", snap.To)
	assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.Local), snap.GeneratedAt)
	require.Len(t, snap.Accounts, 2)
	assert.Equal(t, "Checking", snap.Accounts[0].Name)

	c, ok := snap.Account(checking.ID)
	require.True(t, ok)
	// Live balance 1000+200+5000-1200-300-700 = 4000; minus the -700 after range.
	assert.Equal(t, core.Cents(4700), c.Balance)
	assert.Equal(t, core.Cents(5000), c.TotalIncome)
	assert.Equal(t, core.Cents(1500), c.TotalExpenses)
	assert.Equal(t, core.Cents(3500), c.NetRevenue())
	require.Len(t, c.Transactions, 3)
	assert.Equal(t, "Last day", c.Transactions[0].Description)
	require.Len(t, c.Budgets, 1)
	assert.Equal(t, core.Cents(1500), c.Budgets[0].Balance)

	s, ok := snap.Account(savings.ID)
	require.True(t, ok)
	assert.Equal(t, core.Cents(500), s.Balance)
	assert.Empty(t, s.Transactions)
	assert.Empty(t, s.Budgets)
	assert.Equal(t, core.Cents(0), s.TotalIncome)

	// Open range: live balances and everything.
	all, err := f.reports.Snapshot(ctx, core.DateRange{})
	require.NoError(t, err)
	c, _ = all.Account(checking.ID)
	assert.Equal(t, core.Cents(4000), c.Balance)
	assert.Len(t, c.Transactions, 5)
	assert.Len(t, c.Budgets, 2)
	assert.Empty(t, all.From)

	_, err = f.reports.Snapshot(ctx, core.DateRange{From: r.To, To: r.From})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSnapshotBudgetsInPartlyCoveredMonths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(2024, time.January, 1)
	checking := f.account(t, "100", "Checking", 0)
	food := f.category(t, "Food")
	for _, m := range []time.Month{time.January, time.March} {
		_, err := f.budgets.Create(ctx, CreateBudgetParams{
			Account: core.AccountByID(checking.ID), Category: core.CategoryByID(food.ID),
			Amount: core.Cents(1000), Period: core.YearMonth{Year: 2024, Month: m},
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		from, to string
		want     []time.Month
	}{
		{"range touches first and last day of months", "2024-01-31", "2024-03-01", []time.Month{time.January, time.March}},
		{"range inside a month without budget", "2024-02-01", "2024-02-29", nil},
		{"range starts late in the month", "2024-01-20", "2024-02-10", []time.Month{time.January}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := core.ParseDateRange(tt.from, tt.to)
			require.NoError(t, err)
			snap, err := f.reports.Snapshot(ctx, r)
			require.NoError(t, err)
			c, ok := snap.Account(checking.ID)
			require.True(t, ok)

			var got []time.Month
			for _, b := range c.Budgets {
				got = append(got, b.Period.Month)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
