package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wallet-ledger/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const applicationName = "wallet-ledger"

// NewPool opens the pool shared by the ledger store and the order facts
// reader, then pings it. opTimeout is the ledger operation timeout.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, opTimeout time.Duration, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg, opTimeout)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", poolCfg.MaxConns).
		Int32("min_conns", poolCfg.MinConns).
		Str("statement_timeout", poolCfg.ConnConfig.RuntimeParams["statement_timeout"]).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// poolConfig caps every session's statements and lock waits at the ledger
// operation timeout. The server then cancels a statement the caller has
// already given up on, and the failure classifies as retryable.
func poolConfig(cfg config.DatabaseConfig, opTimeout time.Duration) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	params := poolCfg.ConnConfig.RuntimeParams
	params["application_name"] = applicationName
	if opTimeout > 0 {
		ms := strconv.FormatInt(opTimeout.Milliseconds(), 10)
		params["statement_timeout"] = ms
		params["lock_timeout"] = ms
	}
	return poolCfg, nil
}
