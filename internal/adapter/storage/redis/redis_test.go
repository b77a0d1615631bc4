package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"wallet-ledger/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: portOf(t, mr)}
	client, err := NewClient(context.Background(), cfg, time.Second, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port := portOf(t, mr)
	mr.Close()

	_, err := NewClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: port}, time.Second, zerolog.Nop())
	assert.Error(t, err)
}

func TestClientOptions_BoundedByOperationTimeout(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache", Port: 6379, Password: "pw", DB: 2}

	opts := clientOptions(cfg, 2*time.Second)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.WriteTimeout)
	assert.True(t, opts.ContextTimeoutEnabled)

	defaults := clientOptions(cfg, 0)
	assert.Zero(t, defaults.ReadTimeout)
	assert.False(t, defaults.ContextTimeoutEnabled)
}

func portOf(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
