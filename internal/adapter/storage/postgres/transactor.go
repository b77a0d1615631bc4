package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor opens the database transaction a ledger commit runs in.
type Transactor struct {
	pool Pool
}

// NewTransactor creates a Transactor over the pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin starts a transaction. The caller must Commit or Rollback it.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
