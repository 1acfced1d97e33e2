// Package dbx holds the database plumbing shared by the user, leave request
// and refresh token repositories: the DBTX handle they all accept, and the
// WithTx helper the services use for multi-statement work like snapshotting a
// manager onto a new request or rotating a refresh token.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface a repository needs. *sql.DB and *sql.Tx both
// satisfy it, so the same repository instance runs standalone or inside a
// WithTx callback.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := m.Leaves(tx)
//	    // reads and writes on repo share one transaction
//	    return repo.UpdateStatus(ctx, id, status)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
