package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/adapter/metrics"
	"wallet-ledger/internal/adapter/storage/memory"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"
	"wallet-ledger/pkg/money"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var mc = money.Default

// testApp runs the real HTTP layer, services and memory ledger store, with
// miniredis behind the settlement cache and the rate limiter.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	facts  *inMemoryFacts
}

type appOptions struct {
	rateLimit *config.RateLimitConfig
}

func newTestApp(t *testing.T, opts ...func(*appOptions)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	o := appOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewWithWriter("error", io.Discard)
	reg := prometheus.NewRegistry()
	ledgerMetrics := metrics.New(reg)

	store := memory.NewLedgerStore(mc)
	facts := newInMemoryFacts()

	recorder := service.NewTransactionRecorder(store, ledgerMetrics, log)
	wallets := service.NewWalletManager(store, recorder, mc, 2*time.Second, log)
	engine := service.NewSettlementEngine(
		wallets, store, facts,
		redisStorage.NewSettlementCache(rdb, mc),
		ledgerMetrics, mc,
		config.SettlementConfig{MaxAttempts: 3, RetryBackoff: time.Millisecond, CacheTTL: time.Hour},
		log,
	)

	deps := httpHandler.RouterDeps{
		Wallets:        wallets,
		Engine:         engine,
		Money:          mc,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         log,
	}
	if o.rateLimit != nil {
		deps.RateLimitStore = redisStorage.NewRateLimitStore(rdb)
		deps.RateLimitRules = middleware.RateLimitRules(*o.rateLimit)
	}

	srv := httptest.NewServer(httpHandler.SetupRouter(deps))
	t.Cleanup(srv.Close)

	return &testApp{server: srv, redis: mr, facts: facts}
}

func withRateLimit(limit int64) func(*appOptions) {
	return func(o *appOptions) {
		o.rateLimit = &config.RateLimitConfig{Enabled: true, Limit: limit, Window: time.Minute}
	}
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Retryable bool            `json:"retryable"`
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type walletView struct {
	ID               string `json:"id"`
	AvailableBalance string `json:"available_balance"`
	ReservedBalance  string `json:"reserved_balance"`
	Version          int64  `json:"version"`
}

type intentView struct {
	Wallet      walletView `json:"wallet"`
	Transaction struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"transaction"`
	Replayed bool `json:"replayed"`
}

type settlementView struct {
	Settlement struct {
		State    string `json:"state"`
		WalletID string `json:"wallet_id"`
	} `json:"settlement"`
	Transactions []struct {
		Type   string `json:"type"`
		Amount string `json:"amount"`
	} `json:"transactions"`
	Replayed bool `json:"replayed"`
}

// seedOrder stores facts whose shopper earning is 199.50.
func (a *testApp) seedOrder(shopperID uuid.UUID) uuid.UUID {
	orderID := uuid.New()
	a.facts.putOrder(&domain.OrderFinancials{
		OrderID:     orderID,
		ShopperID:   shopperID,
		Total:       mc.MustParse("250.00"),
		ServiceFee:  mc.MustParse("5.00"),
		DeliveryFee: mc.MustParse("15.50"),
		Discount:    mc.MustParse("10.00"),
		Revenue: []domain.RevenueShare{
			{ID: uuid.New(), OrderID: orderID, Type: domain.RevenueTypeProduct, Amount: mc.MustParse("25.00")},
			{ID: uuid.New(), OrderID: orderID, Type: domain.RevenueTypeDelivery, Amount: mc.MustParse("15.50")},
		},
	})
	return orderID
}

func (a *testApp) createWallet(t *testing.T, shopperID uuid.UUID) walletView {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/v1/wallets", map[string]string{"shopper_id": shopperID.String()})
	require.Equal(t, http.StatusOK, status)
	return decode[walletView](t, env)
}

func refundRow(refundID, orderID uuid.UUID, amount string) *domain.Refund {
	return &domain.Refund{
		ID:          refundID,
		OrderID:     orderID,
		Amount:      mc.MustParse(amount),
		Reason:      "damaged item",
		GeneratedBy: "support",
	}
}
