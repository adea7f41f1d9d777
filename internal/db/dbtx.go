package db

import (
	"context"
	"database/sql"
)

// DBTX is what the session and subject repositories query through. Both the
// pool and an open transaction satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

type txKey struct{}

// openTx is the transaction a context is running inside, with the number of
// savepoints already stacked on it.
type openTx struct {
	tx    *sql.Tx
	depth int
}

func withTx(ctx context.Context, t openTx) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

func txFrom(ctx context.Context) (openTx, bool) {
	t, ok := ctx.Value(txKey{}).(openTx)
	return t, ok
}
