package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"oink/internal/amqp"
	"oink/internal/core"
	"oink/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.account(t, "1", "Checking", 0)

	_, err := f.ledger.Record(ctx, RecordParams{Account: core.AccountByID(a.ID), Type: core.Deposit, Amount: core.Cents(-1)})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.ledger.Record(ctx, RecordParams{Account: core.AccountByID(a.ID), Type: core.TransactionType(5), Amount: core.Cents(1)})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.ledger.Record(ctx, RecordParams{Account: core.AccountByName("Nope"), Type: core.Deposit, Amount: core.Cents(1)})
	assert.ErrorIs(t, err, core.ErrNotFound)

	missing := core.CategoryByName("Food")
	_, err = f.ledger.Record(ctx, RecordParams{Account: core.AccountByID(a.ID), Type: core.Deposit, Amount: core.Cents(1), Category: &missing})
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, int64(0), f.balance(t, a))
	assert.Empty(t, f.events.kinds())
}

func TestRecordZeroAmount(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "1", "Checking", 100)
	tx := f.record(t, a, core.Withdrawal, 0, "nothing", nil)
	assert.Equal(t, core.Cents(0), tx.Amount)
	assert.Equal(t, int64(100), f.balance(t, a))
}

func TestBalanceInvariantAfterMixedOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)
	savings := f.account(t, "2", "Savings", 250)
	food := f.category(t, "Food")
	rent := f.category(t, "Rent")

	pay := f.record(t, checking, core.Deposit, 5000, "Paycheck", nil)
	groceries := f.record(t, checking, core.Withdrawal, 1200, "Groceries", &food)
	f.record(t, checking, core.Withdrawal, 80000, "Rent", &rent)
	f.record(t, savings, core.Deposit, 40, "Interest", nil)
	f.requireInvariant(t, checking, 1000)

	_, err := f.ledger.Transfer(ctx, core.Cents(700), core.AccountByID(checking.ID), core.AccountByID(savings.ID))
	require.NoError(t, err)

	_, err = f.ledger.Edit(ctx, groceries.ID, EditParams{Type: ptr(core.Deposit)})
	require.NoError(t, err)
	_, err = f.ledger.Edit(ctx, pay.ID, EditParams{Amount: ptr(core.Cents(4500))})
	require.NoError(t, err)
	_, err = f.ledger.Delete(ctx, groceries.ID)
	require.NoError(t, err)

	// Self transfer nets to zero.
	before := f.balance(t, savings)
	_, err = f.ledger.Transfer(ctx, core.Cents(5), core.AccountByID(savings.ID), core.AccountByID(savings.ID))
	require.NoError(t, err)
	assert.Equal(t, before, f.balance(t, savings))

	f.requireInvariant(t, checking, 1000)
	f.requireInvariant(t, savings, 250)
	assert.Equal(t, int64(1000+4500-80000-700), f.balance(t, checking))
	assert.Equal(t, int64(250+40+700), f.balance(t, savings))
}

func TestDeleteThenReRecordRestoresBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.account(t, "1", "Checking", 0)
	food := f.category(t, "Food")
	f.record(t, a, core.Deposit, 5000, "Paycheck", nil)

	tx := f.record(t, a, core.Withdrawal, 1200, "Groceries", &food)
	beforeDelete := f.balance(t, a)

	deleted, err := f.ledger.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, deleted.ID)
	assert.Equal(t, int64(5000), f.balance(t, a))

	_, err = f.ledger.Get(ctx, tx.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.ledger.Delete(ctx, tx.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	f.record(t, a, core.Withdrawal, 1200, "Groceries", &food)
	assert.Equal(t, beforeDelete, f.balance(t, a))
	f.requireInvariant(t, a, 0)
}

func TestTransferScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)
	savings := f.account(t, "2", "Savings", 1000)

	tr, err := f.ledger.Transfer(ctx, core.Cents(300), core.AccountByName("Checking"), core.AccountByName("Savings"))
	require.NoError(t, err)

	assert.Equal(t, int64(700), f.balance(t, checking))
	assert.Equal(t, int64(1300), f.balance(t, savings))

	assert.Equal(t, core.Withdrawal, tr.Withdrawal.Type)
	assert.Equal(t, checking.ID, tr.Withdrawal.AccountID)
	assert.Equal(t, fmt.Sprintf("Transfer to Savings (account #%d)", savings.ID), tr.Withdrawal.Description)
	assert.Equal(t, core.Deposit, tr.Deposit.Type)
	assert.Equal(t, savings.ID, tr.Deposit.AccountID)
	assert.Equal(t, fmt.Sprintf("Transfer from Checking (account #%d)", checking.ID), tr.Deposit.Description)

	all, err := f.ledger.ListAll(ctx, core.Unlimited, core.DateRange{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []amqp.EventKind{amqp.KindRecorded, amqp.KindRecorded}, f.events.kinds())
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)

	_, err := f.ledger.Transfer(ctx, core.Cents(0), core.AccountByID(checking.ID), core.AccountByID(checking.ID))
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.ledger.Transfer(ctx, core.Cents(10), core.AccountByID(checking.ID), core.AccountByName("Nope"))
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.ledger.Transfer(ctx, core.Cents(10), core.AccountByName("Nope"), core.AccountByID(checking.ID))
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, int64(1000), f.balance(t, checking))
}

func TestTransferRollsBackWhenDestinationVanishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)
	savings := f.account(t, "2", "Savings", 1000)

	f.ledger.beforeSecondLeg = func(ctx context.Context, q *storage.Queries) error {
		_, err := q.DeleteAccount(ctx, savings.ID)
		return err
	}

	_, err := f.ledger.Transfer(ctx, core.Cents(300), core.AccountByID(checking.ID), core.AccountByID(savings.ID))
	require.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, int64(1000), f.balance(t, checking))
	assert.Equal(t, int64(1000), f.balance(t, savings), "destination delete must roll back too")
	txs, err := f.ledger.ListAll(ctx, core.Unlimited, core.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Empty(t, f.events.kinds())
}

func TestTransferRollsBackOnHookError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 1000)
	savings := f.account(t, "2", "Savings", 0)
	boom := errors.New("boom")
	f.ledger.beforeSecondLeg = func(context.Context, *storage.Queries) error { return boom }

	_, err := f.ledger.Transfer(ctx, core.Cents(300), core.AccountByID(checking.ID), core.AccountByID(savings.ID))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1000), f.balance(t, checking))
	assert.Equal(t, int64(0), f.balance(t, savings))
}

func TestEditBalanceDiff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.account(t, "1", "Checking", 10000)
	tx := f.record(t, a, core.Withdrawal, 500, "Lunch", nil)
	require.Equal(t, int64(9500), f.balance(t, a))

	edited, err := f.ledger.Edit(ctx, tx.ID, EditParams{Amount: ptr(core.Cents(300))})
	require.NoError(t, err)
	assert.Equal(t, core.Cents(300), edited.Amount)
	assert.Equal(t, int64(9700), f.balance(t, a), "500 -> 300 withdrawal moves balance by +200")

	edited, err = f.ledger.Edit(ctx, tx.ID, EditParams{Description: ptr("Lunch with Sam")})
	require.NoError(t, err)
	assert.Equal(t, "Lunch with Sam", edited.Description)
	assert.Equal(t, int64(9700), f.balance(t, a), "description edit must not move the balance")

	_, err = f.ledger.Edit(ctx, tx.ID, EditParams{Type: ptr(core.Deposit)})
	require.NoError(t, err)
	assert.Equal(t, int64(10300), f.balance(t, a))
	f.requireInvariant(t, a, 10000)
}

func TestEditCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.account(t, "1", "Checking", 0)
	food := f.category(t, "Food")
	fun := f.category(t, "Fun")
	tx := f.record(t, a, core.Withdrawal, 100, "Snacks", &food)
	assert.Equal(t, "Food", tx.CategoryName)

	funRef := core.CategoryByName("Fun")
	edited, err := f.ledger.Edit(ctx, tx.ID, EditParams{Category: &funRef})
	require.NoError(t, err)
	require.NotNil(t, edited.CategoryID)
	assert.Equal(t, fun.ID, *edited.CategoryID)

	edited, err = f.ledger.Edit(ctx, tx.ID, EditParams{ClearCategory: true})
	require.NoError(t, err)
	assert.Nil(t, edited.CategoryID)
	assert.Empty(t, edited.CategoryName)

	_, err = f.ledger.Edit(ctx, tx.ID, EditParams{ClearCategory: true, Category: &funRef})
	assert.ErrorIs(t, err, core.ErrValidation)
	missing := core.CategoryByID(999)
	_, err = f.ledger.Edit(ctx, tx.ID, EditParams{Category: &missing})
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.ledger.Edit(ctx, tx.ID, EditParams{Amount: ptr(core.Cents(-1))})
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = f.ledger.Edit(ctx, 999, EditParams{Description: ptr("x")})
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, int64(-100), f.balance(t, a))

	f.events.mu.Lock()
	last := f.events.events[len(f.events.events)-1]
	f.events.mu.Unlock()
	assert.Equal(t, amqp.KindEdited, last.Kind)
	require.NotNil(t, last.PreviousCategoryID)
	assert.Equal(t, fun.ID, *last.PreviousCategoryID)
}

func TestListOrderingAndLimits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checking := f.account(t, "1", "Checking", 0)
	savings := f.account(t, "2", "Savings", 0)

	f.at(2024, time.January, 10)
	first := f.record(t, checking, core.Deposit, 1, "first", nil)
	f.at(2024, time.January, 20)
	second := f.record(t, checking, core.Deposit, 2, "second", nil)
	third := f.record(t, savings, core.Deposit, 3, "third", nil)
	f.at(2024, time.February, 1)
	fourth := f.record(t, checking, core.Deposit, 4, "fourth", nil)

	all, err := f.ledger.ListAll(ctx, core.Unlimited, core.DateRange{})
	require.NoError(t, err)
	ids := func(txs []core.Transaction) []int64 {
		out := make([]int64, 0, len(txs))
		for _, tx := range txs {
			out = append(out, tx.ID)
		}
		return out
	}
	// Same timestamp: higher id first.
	assert.Equal(t, []int64{fourth.ID, third.ID, second.ID, first.ID}, ids(all))

	limited, err := f.ledger.ListAll(ctx, core.Limit(2), core.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, []int64{fourth.ID, third.ID}, ids(limited))

	none, err := f.ledger.ListAll(ctx, core.Limit(0), core.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, none)

	january, err := core.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	inJan, err := f.ledger.ListForAccount(ctx, core.AccountByName("Checking"), january, core.Unlimited)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, first.ID}, ids(inJan))

	from, err := core.ParseDateRange("2024-01-20", "")
	require.NoError(t, err)
	since, err := f.ledger.ListForAccount(ctx, core.AccountByID(checking.ID), from, core.Unlimited)
	require.NoError(t, err)
	assert.Equal(t, []int64{fourth.ID, second.ID}, ids(since))

	_, err = f.ledger.ListAll(ctx, core.Limit(-5), core.DateRange{})
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = f.ledger.ListForAccount(ctx, core.AccountByName("Nope"), core.DateRange{}, core.Unlimited)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	a := f.account(t, "1", "Checking", 0)

	f.record(t, a, core.Deposit, 100, "pay", nil)
	assert.Equal(t, int64(100), f.balance(t, a))
	assert.Equal(t, []amqp.EventKind{amqp.KindRecorded}, f.events.kinds())
}
