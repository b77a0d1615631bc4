package redis

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient connects the client behind the settlement cache and the rate
// limiter, then pings it. opTimeout is the ledger operation timeout.
func NewClient(ctx context.Context, cfg config.RedisConfig, opTimeout time.Duration, log zerolog.Logger) (*goredis.Client, error) {
	opts := clientOptions(cfg, opTimeout)
	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Dur("io_timeout", opts.ReadTimeout).
		Msg("Redis connection established")

	return client, nil
}

// clientOptions bounds every cache round trip well inside one ledger
// operation. A slow cache read falls through to the store instead of using
// up the caller's deadline.
func clientOptions(cfg config.RedisConfig, opTimeout time.Duration) *goredis.Options {
	opts := &goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if opTimeout > 0 {
		rw := opTimeout / 4
		opts.DialTimeout = opTimeout
		opts.ReadTimeout = rw
		opts.WriteTimeout = rw
		opts.ContextTimeoutEnabled = true
	}
	return opts
}
