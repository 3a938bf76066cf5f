package store

import (
	"context"
	"database/sql"
	"fmt"

	"bloglist/pkg/logger"
)

// TxFn runs inside a transaction opened by RunInTx.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTx commits when fn returns nil and rolls back otherwise,
// including when fn panics.
func RunInTx(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Sugar.Errorf("Failed to roll back transaction after panic: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Sugar.Errorf("Failed to roll back transaction: %v (original error: %v)", rbErr, err)
			return fmt.Errorf("rollback: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
