package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs multi-step store mutations atomically. Imports, resets and
// cascading subject deletes go through it so a failure halfway leaves the
// previous sessions and subjects intact.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx commits when fn returns nil and rolls back on error, panic or a
// cancelled ctx. fn must only use tx: the pool holds a single connection, so
// a second BeginTx would wait forever. A call made with a ctx that already
// came from WithinTx joins that transaction through a savepoint instead.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	if outer, ok := txFrom(ctx); ok {
		return withinSavepoint(ctx, outer, fn)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, openTx{tx: tx}), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("transaction abandoned: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// withinSavepoint undoes only fn's writes when it fails; the enclosing
// transaction decides whether anything is kept.
func withinSavepoint(ctx context.Context, outer openTx, fn func(ctx context.Context, tx DBTX) error) error {
	inner := openTx{tx: outer.tx, depth: outer.depth + 1}
	name := fmt.Sprintf("uow_%d", inner.depth)
	if _, err := outer.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("opening savepoint: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_, _ = outer.tx.ExecContext(context.WithoutCancel(ctx), "ROLLBACK TO "+name)
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, inner), outer.tx); err != nil {
		if _, rbErr := outer.tx.ExecContext(context.WithoutCancel(ctx), "ROLLBACK TO "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint failed: %v (after: %w)", rbErr, err)
		}
		_, _ = outer.tx.ExecContext(context.WithoutCancel(ctx), "RELEASE "+name)
		return err
	}
	if _, err := outer.tx.ExecContext(ctx, "RELEASE "+name); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}
