package services

import (
	"context"
	"fmt"

	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

// CategoryRegistry maintains the shared category names transactions and
// budgets are filed under.
type CategoryRegistry struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewCategoryRegistry(repo *storage.SQLiteRepository, logger *log.Logger) *CategoryRegistry {
	if logger == nil {
		logger = log.Discard()
	}
	return &CategoryRegistry{repo: repo, logger: logger.WithComponent(log.ComponentCategory)}
}

func (r *CategoryRegistry) Create(ctx context.Context, name string) (core.Category, error) {
	name, err := validName(name)
	if err != nil {
		return core.Category{}, err
	}
	row, err := r.repo.Queries().InsertCategory(ctx, name)
	if err != nil {
		return core.Category{}, conflictOr(err, fmt.Sprintf("category %q", name))
	}
	r.logger.InfoContext(ctx, "Category created",
		log.FieldOperation, log.OpCreate,
		log.FieldCategoryID, row.ID)
	return row.ToCore(), nil
}

func (r *CategoryRegistry) Get(ctx context.Context, ref core.CategoryRef) (core.Category, error) {
	row, err := r.repo.Queries().GetCategory(ctx, ref)
	if err != nil {
		return core.Category{}, err
	}
	return row.ToCore(), nil
}

// List returns every category ordered by name.
func (r *CategoryRegistry) List(ctx context.Context) ([]core.Category, error) {
	rows, err := r.repo.Queries().ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToCore())
	}
	return out, nil
}

func (r *CategoryRegistry) Rename(ctx context.Context, ref core.CategoryRef, newName string) (core.Category, error) {
	newName, err := validName(newName)
	if err != nil {
		return core.Category{}, err
	}

	var row storage.Category
	err = r.repo.WithTx(ctx, func(q *storage.Queries) error {
		row, err = q.GetCategory(ctx, ref)
		if err != nil {
			return err
		}
		if row.Name == newName {
			return nil
		}
		n, err := q.UpdateCategoryName(ctx, row.ID, newName)
		if err != nil {
			return conflictOr(err, fmt.Sprintf("category %q", newName))
		}
		if err := affected(n, nil, fmt.Sprintf("category %s", ref)); err != nil {
			return err
		}
		row.Name = newName
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	r.logger.InfoContext(ctx, "Category renamed",
		log.FieldOperation, log.OpUpdate,
		log.FieldCategoryID, row.ID)
	return row.ToCore(), nil
}

// Delete removes a category together with its transactions and budgets.
// The balance effect of the removed transactions is reversed first, in the
// same transaction, so every account still equals its starting balance
// plus its remaining transactions.
func (r *CategoryRegistry) Delete(ctx context.Context, id int64) error {
	var reversed []storage.AccountDelta
	err := r.repo.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetCategory(ctx, core.CategoryByID(id)); err != nil {
			return err
		}
		effects, err := q.CategoryEffects(ctx, id)
		if err != nil {
			return fmt.Errorf("sum category #%d transactions: %w", id, err)
		}
		for _, e := range effects {
			if e.Delta == 0 {
				continue
			}
			n, err := q.AddAccountBalance(ctx, e.AccountID, -e.Delta)
			if err := affected(n, err, fmt.Sprintf("account #%d", e.AccountID)); err != nil {
				return err
			}
		}
		n, err := q.DeleteCategory(ctx, id)
		if err := affected(n, err, fmt.Sprintf("category #%d", id)); err != nil {
			return err
		}
		reversed = effects
		return nil
	})
	if err != nil {
		return err
	}

	for _, e := range reversed {
		r.logger.DebugContext(ctx, "Reversed category effect",
			log.FieldAccountID, e.AccountID,
			log.FieldDeltaCents, -e.Delta)
	}
	r.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldCategoryID, id)
	return nil
}
