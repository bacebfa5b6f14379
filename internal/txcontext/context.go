// Package txcontext carries an open database transaction through a context.
// Query helpers consult the context before the connection pool, so work
// started inside a transaction joins it without threading the handle
// explicitly.
package txcontext

import (
	"context"
	"database/sql"
)

// txKey is the unexported context key for the transaction handle.
type txKey struct{}

// WithTx returns a new context with the transaction stored.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext retrieves the transaction if present.
// Returns (nil, false) if no transaction is set.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}
