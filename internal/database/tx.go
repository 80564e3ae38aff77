package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tx is an open transaction handed to DAOs via their WithTx method.
type Tx struct {
	*sqlx.Tx
}

// WithTx runs fn inside a transaction, committing when it returns nil and
// rolling back otherwise. Every multi-statement mutation in the tracker goes
// through here so it either fully applies or not at all.
func (db *DB) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	rawTx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(Tx{rawTx}); err != nil {
		_ = rawTx.Rollback()
		return err
	}

	if err := rawTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
