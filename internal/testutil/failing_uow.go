package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/constructbms/gantt/internal/db"
)

// FailOnNthExecUoW runs fn in a real transaction but makes the FailOn-th
// write return Err, so tests can check that a multi-row save (an import,
// a WBS renumbering) leaves nothing behind. Writes are counted from 1;
// reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	writes atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin test transaction: %w", err)
	}
	if err := fn(ctx, &countingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Writes reports how many writes were attempted across all transactions.
func (u *FailOnNthExecUoW) Writes() int { return int(u.writes.Load()) }

type countingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.uow.writes.Add(1) == c.uow.FailOn {
		return nil, c.uow.Err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
