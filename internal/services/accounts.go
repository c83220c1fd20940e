package services

import (
	"context"
	"fmt"
	"strings"

	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

// AccountStore creates, reads and maintains accounts. Balances are changed
// directly only through SetBalance; everything else goes through the
// LedgerEngine.
type AccountStore struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewAccountStore(repo *storage.SQLiteRepository, logger *log.Logger) *AccountStore {
	if logger == nil {
		logger = log.Discard()
	}
	return &AccountStore{repo: repo, logger: logger.WithComponent(log.ComponentAccounts)}
}

// Create opens an account with a starting balance.
func (s *AccountStore) Create(ctx context.Context, number, name string, start core.Money) (core.Account, error) {
	number = strings.TrimSpace(number)
	if !core.ValidAccountNumber(number) {
		return core.Account{}, fmt.Errorf("%w: %q", core.ErrInvalidAccountNumber, number)
	}
	name, err := validName(name)
	if err != nil {
		return core.Account{}, err
	}
	if err := start.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("starting balance: %w", err)
	}

	var row storage.Account
	err = s.repo.WithTx(ctx, func(q *storage.Queries) error {
		taken, err := q.AccountNameTaken(ctx, name, 0)
		if err != nil {
			return fmt.Errorf("check account name: %w", err)
		}
		if taken {
			return core.Conflictf("account name %q already exists", name)
		}
		taken, err = q.AccountNumberTaken(ctx, number)
		if err != nil {
			return fmt.Errorf("check account number: %w", err)
		}
		if taken {
			return core.Conflictf("account number %s already exists", number)
		}

		row, err = q.InsertAccount(ctx, storage.InsertAccountParams{
			AccountNumber: number,
			Name:          name,
			Balance:       start.Cents,
			CreatedAt:     core.FormatTimestamp(s.repo.Now()),
		})
		if err != nil {
			return conflictOr(err, fmt.Sprintf("account %q", name))
		}
		return nil
	})
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account created", log.NewFields().
		WithOperation(log.OpCreate).
		WithAccount(row.ID, row.Name).
		ToSlice()...)
	return row.ToCore()
}

func (s *AccountStore) Get(ctx context.Context, ref core.AccountRef) (core.Account, error) {
	row, err := s.repo.Queries().GetAccount(ctx, ref)
	if err != nil {
		return core.Account{}, err
	}
	return row.ToCore()
}

func (s *AccountStore) GetBalance(ctx context.Context, ref core.AccountRef) (core.Money, error) {
	row, err := s.repo.Queries().GetAccount(ctx, ref)
	if err != nil {
		return core.Money{}, err
	}
	return core.Cents(row.Balance), nil
}

// SetBalance overwrites the stored balance. It does not check the sign:
// the ledger may legitimately drive an account negative.
func (s *AccountStore) SetBalance(ctx context.Context, ref core.AccountRef, balance core.Money) error {
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		row, err := q.GetAccount(ctx, ref)
		if err != nil {
			return err
		}
		n, err := q.SetAccountBalance(ctx, row.ID, balance.Cents)
		return affected(n, err, fmt.Sprintf("account %s", ref))
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Account balance set",
		log.FieldOperation, log.OpUpdate,
		log.FieldBalanceCents, balance.Cents)
	return nil
}

// Rename gives an account a new unique name. Renaming to the current name
// succeeds without writing.
func (s *AccountStore) Rename(ctx context.Context, id int64, newName string) (core.Account, error) {
	newName, err := validName(newName)
	if err != nil {
		return core.Account{}, err
	}

	var row storage.Account
	err = s.repo.WithTx(ctx, func(q *storage.Queries) error {
		row, err = q.GetAccount(ctx, core.AccountByID(id))
		if err != nil {
			return err
		}
		if row.Name == newName {
			return nil
		}
		taken, err := q.AccountNameTaken(ctx, newName, id)
		if err != nil {
			return fmt.Errorf("check account name: %w", err)
		}
		if taken {
			return core.Conflictf("account name %q already exists", newName)
		}
		n, err := q.UpdateAccountName(ctx, id, newName)
		if err != nil {
			return conflictOr(err, fmt.Sprintf("account name %q", newName))
		}
		if err := affected(n, nil, fmt.Sprintf("account #%d", id)); err != nil {
			return err
		}
		row.Name = newName
		return nil
	})
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account renamed", log.NewFields().
		WithOperation(log.OpUpdate).
		WithAccount(row.ID, row.Name).
		ToSlice()...)
	return row.ToCore()
}

// Delete removes an account; its transactions and budgets go with it.
func (s *AccountStore) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Queries().DeleteAccount(ctx, id)
	if err := affected(n, err, fmt.Sprintf("account #%d", id)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Account deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldAccountID, id)
	return nil
}

// List returns every account ordered by name.
func (s *AccountStore) List(ctx context.Context) ([]core.Account, error) {
	rows, err := s.repo.Queries().ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]core.Account, 0, len(rows))
	for _, r := range rows {
		a, err := r.ToCore()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
