package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"oink/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository owns the database handle. Every multi-step mutation goes
// through WithTx; nothing is cached between calls.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries

	mu  sync.RWMutex
	now func() time.Time
}

// DSN builds the connection string used for both the main handle and the
// migration handle. Foreign keys must be on for the cascades to fire.
func DSN(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: SQLite serializes writers anyway and the pragmas
	// above are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Queries returns the non-transactional query set.
func (r *SQLiteRepository) Queries() *Queries {
	return r.queries
}

// WithTx runs fn inside one transaction. fn must use only the Queries it is
// handed; the pool has a single connection so r.Queries() would block.
// The transaction is rolled back when fn returns an error or panics.
func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Now is the creation timestamp source, truncated to the stored precision.
func (r *SQLiteRepository) Now() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.now().Truncate(time.Second)
}

// SetClock replaces the timestamp source. Tests use it to date rows.
func (r *SQLiteRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	r.now = now
}

// GetAccount resolves an account reference.
func (q *Queries) GetAccount(ctx context.Context, ref core.AccountRef) (Account, error) {
	var (
		a   Account
		err error
	)
	if name, ok := ref.Name(); ok {
		a, err = q.GetAccountByName(ctx, name)
	} else {
		id, _ := ref.ID()
		a, err = q.GetAccountByID(ctx, id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, core.NotFoundf("account %s", ref)
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account %s: %w", ref, err)
	}
	return a, nil
}

// GetCategory resolves a category reference.
func (q *Queries) GetCategory(ctx context.Context, ref core.CategoryRef) (Category, error) {
	var (
		c   Category
		err error
	)
	if name, ok := ref.Name(); ok {
		c, err = q.GetCategoryByName(ctx, name)
	} else {
		id, _ := ref.ID()
		c, err = q.GetCategoryByID(ctx, id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, core.NotFoundf("category %s", ref)
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category %s: %w", ref, err)
	}
	return c, nil
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func IsUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	// Primary result code only when extended codes are off.
	return strings.Contains(serr.Error(), "UNIQUE constraint failed")
}

// IsNoRows reports whether err is the empty-result error of a :one query.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
