package services

import (
	"context"
	"fmt"
	"strings"

	"oink/internal/amqp"
	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

// EventPublisher receives ledger events after their transaction commits.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// LedgerEngine records, transfers, edits and deletes transactions. Every
// mutation changes the transaction row and the account balance in one
// store transaction, so a balance always equals the starting balance plus
// the signed effect of the account's transactions.
type LedgerEngine struct {
	repo      *storage.SQLiteRepository
	publisher EventPublisher
	logger    *log.Logger

	// beforeSecondLeg runs between the two legs of a transfer.
	beforeSecondLeg func(ctx context.Context, q *storage.Queries) error
}

// NewLedgerEngine wires the engine. publisher may be nil.
func NewLedgerEngine(repo *storage.SQLiteRepository, publisher EventPublisher, logger *log.Logger) *LedgerEngine {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerEngine{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

type RecordParams struct {
	Account     core.AccountRef
	Type        core.TransactionType
	Amount      core.Money
	Description string
	// Category is optional; nil records an uncategorized transaction.
	Category *core.CategoryRef
}

// EditParams lists the fields to change. Nil fields keep their value.
type EditParams struct {
	Type        *core.TransactionType
	Amount      *core.Money
	Description *string
	Category    *core.CategoryRef
	// ClearCategory makes the transaction uncategorized.
	ClearCategory bool
}

func (p EditParams) validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("%w %d", core.ErrInvalidType, int(*p.Type))
	}
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
	}
	if p.ClearCategory && p.Category != nil {
		return core.Validationf("cannot both set and clear the category")
	}
	return nil
}

// Record applies a single transaction to an account.
func (e *LedgerEngine) Record(ctx context.Context, p RecordParams) (core.Transaction, error) {
	if !p.Type.Valid() {
		return core.Transaction{}, fmt.Errorf("%w %d", core.ErrInvalidType, int(p.Type))
	}
	if err := p.Amount.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var row storage.Transaction
	err := e.repo.WithTx(ctx, func(q *storage.Queries) error {
		account, err := q.GetAccount(ctx, p.Account)
		if err != nil {
			return err
		}
		var categoryID *int64
		if p.Category != nil {
			c, err := q.GetCategory(ctx, *p.Category)
			if err != nil {
				return err
			}
			categoryID = &c.ID
		}
		id, err := e.apply(ctx, q, account.ID, p.Type, p.Amount, strings.TrimSpace(p.Description), categoryID)
		if err != nil {
			return err
		}
		row, err = getTransaction(ctx, q, id)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := row.ToCore()
	if err != nil {
		return core.Transaction{}, err
	}
	e.logMutation(ctx, "Transaction recorded", log.OpRecord, tx)
	e.publish(ctx, amqp.NewLedgerEvent(amqp.KindRecorded, tx))
	return tx, nil
}

// apply inserts a transaction row and moves the balance by its effect.
func (e *LedgerEngine) apply(ctx context.Context, q *storage.Queries, accountID int64, typ core.TransactionType, amount core.Money, desc string, categoryID *int64) (int64, error) {
	id, err := q.InsertTransaction(ctx, storage.InsertTransactionParams{
		AccountID:         accountID,
		TransactionTypeID: int64(typ),
		Description:       desc,
		Amount:            amount.Cents,
		CategoryID:        categoryID,
		CreatedAt:         core.FormatTimestamp(e.repo.Now()),
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	n, err := q.AddAccountBalance(ctx, accountID, typ.Effect(amount).Cents)
	if err := affected(n, err, fmt.Sprintf("account #%d", accountID)); err != nil {
		return 0, err
	}
	return id, nil
}

// Transfer moves amount from source to dest as a withdrawal and a deposit
// that commit or roll back together. Source and dest may be the same
// account; the net effect is then zero.
func (e *LedgerEngine) Transfer(ctx context.Context, amount core.Money, source, dest core.AccountRef) (core.Transfer, error) {
	if amount.Cents <= 0 {
		return core.Transfer{}, core.Validationf("transfer amount must be positive, got %s", amount)
	}

	var out, in storage.Transaction
	err := e.repo.WithTx(ctx, func(q *storage.Queries) error {
		src, err := q.GetAccount(ctx, source)
		if err != nil {
			return fmt.Errorf("transfer source: %w", err)
		}
		dst, err := q.GetAccount(ctx, dest)
		if err != nil {
			return fmt.Errorf("transfer destination: %w", err)
		}

		outID, err := e.apply(ctx, q, src.ID, core.Withdrawal, amount,
			fmt.Sprintf("Transfer to %s (account #%d)", dst.Name, dst.ID), nil)
		if err != nil {
			return err
		}

		if e.beforeSecondLeg != nil {
			if err := e.beforeSecondLeg(ctx, q); err != nil {
				return err
			}
		}

		// The destination is looked up again so a change between the
		// legs fails the whole transfer.
		if _, err := q.GetAccount(ctx, core.AccountByID(dst.ID)); err != nil {
			return fmt.Errorf("transfer destination: %w", err)
		}
		inID, err := e.apply(ctx, q, dst.ID, core.Deposit, amount,
			fmt.Sprintf("Transfer from %s (account #%d)", src.Name, src.ID), nil)
		if err != nil {
			return err
		}

		if out, err = getTransaction(ctx, q, outID); err != nil {
			return err
		}
		in, err = getTransaction(ctx, q, inID)
		return err
	})
	if err != nil {
		return core.Transfer{}, err
	}

	var t core.Transfer
	if t.Withdrawal, err = out.ToCore(); err != nil {
		return core.Transfer{}, err
	}
	if t.Deposit, err = in.ToCore(); err != nil {
		return core.Transfer{}, err
	}
	e.logMutation(ctx, "Transfer withdrawal recorded", log.OpTransfer, t.Withdrawal)
	e.logMutation(ctx, "Transfer deposit recorded", log.OpTransfer, t.Deposit)
	e.publish(ctx, amqp.NewLedgerEvent(amqp.KindRecorded, t.Withdrawal))
	e.publish(ctx, amqp.NewLedgerEvent(amqp.KindRecorded, t.Deposit))
	return t, nil
}

// Delete reverses a transaction's effect and removes it. The deleted
// transaction is returned as it was.
func (e *LedgerEngine) Delete(ctx context.Context, id int64) (core.Transaction, error) {
	var row storage.Transaction
	err := e.repo.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		if row, err = getTransaction(ctx, q, id); err != nil {
			return err
		}
		effect := core.TransactionType(row.TransactionTypeID).Effect(core.Cents(row.Amount))
		n, err := q.AddAccountBalance(ctx, row.AccountID, effect.Neg().Cents)
		if err := affected(n, err, fmt.Sprintf("account #%d", row.AccountID)); err != nil {
			return err
		}
		n, err = q.DeleteTransaction(ctx, id)
		return affected(n, err, fmt.Sprintf("transaction #%d", id))
	})
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := row.ToCore()
	if err != nil {
		return core.Transaction{}, err
	}
	e.logMutation(ctx, "Transaction deleted", log.OpDelete, tx)
	e.publish(ctx, amqp.NewLedgerEvent(amqp.KindDeleted, tx))
	return tx, nil
}

// Edit changes a transaction in place and moves the balance by the
// difference between the new and the old effect only.
func (e *LedgerEngine) Edit(ctx context.Context, id int64, p EditParams) (core.Transaction, error) {
	if err := p.validate(); err != nil {
		return core.Transaction{}, err
	}

	var (
		before, after storage.Transaction
		delta         core.Money
	)
	err := e.repo.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		if before, err = getTransaction(ctx, q, id); err != nil {
			return err
		}

		params := storage.UpdateTransactionParams{
			ID:                id,
			TransactionTypeID: before.TransactionTypeID,
			Description:       before.Description,
			Amount:            before.Amount,
			CategoryID:        before.CategoryID,
		}
		if p.Type != nil {
			params.TransactionTypeID = int64(*p.Type)
		}
		if p.Amount != nil {
			params.Amount = p.Amount.Cents
		}
		if p.Description != nil {
			params.Description = strings.TrimSpace(*p.Description)
		}
		switch {
		case p.ClearCategory:
			params.CategoryID = nil
		case p.Category != nil:
			c, err := q.GetCategory(ctx, *p.Category)
			if err != nil {
				return err
			}
			params.CategoryID = &c.ID
		}

		oldEffect := core.TransactionType(before.TransactionTypeID).Effect(core.Cents(before.Amount))
		newEffect := core.TransactionType(params.TransactionTypeID).Effect(core.Cents(params.Amount))
		delta = newEffect.Sub(oldEffect)

		n, err := q.UpdateTransaction(ctx, params)
		if err := affected(n, err, fmt.Sprintf("transaction #%d", id)); err != nil {
			return err
		}
		if delta.Cents != 0 {
			n, err := q.AddAccountBalance(ctx, before.AccountID, delta.Cents)
			if err := affected(n, err, fmt.Sprintf("account #%d", before.AccountID)); err != nil {
				return err
			}
		}
		after, err = getTransaction(ctx, q, id)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := after.ToCore()
	if err != nil {
		return core.Transaction{}, err
	}
	e.logger.InfoContext(ctx, "Transaction edited", log.NewFields().
		WithOperation(log.OpEdit).
		WithTransaction(tx.ID, tx.Type.String(), tx.Amount.Cents).
		WithAccount(tx.AccountID, "").
		WithCategory(tx.CategoryID).
		ToSlice()...)
	e.logger.DebugContext(ctx, "Balance adjusted by edit", log.FieldDeltaCents, delta.Cents)

	event := amqp.NewLedgerEvent(amqp.KindEdited, tx)
	event.PreviousCategoryID = before.CategoryID
	e.publish(ctx, event)
	return tx, nil
}

func (e *LedgerEngine) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := getTransaction(ctx, e.repo.Queries(), id)
	if err != nil {
		return core.Transaction{}, err
	}
	return row.ToCore()
}

// ListForAccount lists an account's transactions in r, newest first.
func (e *LedgerEngine) ListForAccount(ctx context.Context, ref core.AccountRef, r core.DateRange, limit core.Limit) ([]core.Transaction, error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	q := e.repo.Queries()
	account, err := q.GetAccount(ctx, ref)
	if err != nil {
		return nil, err
	}
	from, to := r.Bounds()
	rows, err := q.ListTransactions(ctx, storage.TransactionFilter{
		AccountID: &account.ID,
		From:      from,
		To:        to,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions for account %s: %w", ref, err)
	}
	return storage.TransactionsToCore(rows)
}

// ListAll lists every account's transactions in r, newest first.
func (e *LedgerEngine) ListAll(ctx context.Context, limit core.Limit, r core.DateRange) ([]core.Transaction, error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.Bounds()
	rows, err := e.repo.Queries().ListTransactions(ctx, storage.TransactionFilter{
		From:  from,
		To:    to,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return storage.TransactionsToCore(rows)
}

func getTransaction(ctx context.Context, q *storage.Queries, id int64) (storage.Transaction, error) {
	row, err := q.GetTransaction(ctx, id)
	if storage.IsNoRows(err) {
		return storage.Transaction{}, core.NotFoundf("transaction #%d", id)
	}
	if err != nil {
		return storage.Transaction{}, fmt.Errorf("get transaction #%d: %w", id, err)
	}
	return row, nil
}

func (e *LedgerEngine) logMutation(ctx context.Context, msg, op string, tx core.Transaction) {
	e.logger.InfoContext(ctx, msg, log.NewFields().
		WithOperation(op).
		WithTransaction(tx.ID, tx.Type.String(), tx.Amount.Cents).
		WithAccount(tx.AccountID, tx.AccountName).
		WithCategory(tx.CategoryID).
		ToSlice()...)
}

// publish hands the event to the publisher. The mutation has already
// committed, so failures are logged and dropped.
func (e *LedgerEngine) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishLedgerEvent(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish ledger event", log.NewFields().
			WithOperation(log.OpPublish).
			WithError(err, nil).
			ToSlice()...)
	}
}
