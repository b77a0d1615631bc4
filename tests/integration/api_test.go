package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, _ := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)

	app.redis.SetError("server down")
	status, _ = app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	app.redis.SetError("")

	shopper := uuid.New()
	w := app.createWallet(t, shopper)
	status, _ = app.do(t, http.MethodPost, "/api/v1/wallets/"+w.ID+"/credit", map[string]string{"amount": "10.00"})
	require.Equal(t, http.StatusCreated, status)

	resp, err := http.Get(app.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `wallet_ledger_commits_total{outcome="committed",type="earning"} 1`)
}

func TestWalletLifecycle(t *testing.T) {
	app := newTestApp(t)
	shopper := uuid.New()

	w := app.createWallet(t, shopper)
	assert.Equal(t, "0.00", w.AvailableBalance)

	again := app.createWallet(t, shopper)
	assert.Equal(t, w.ID, again.ID, "one wallet per shopper")

	base := "/api/v1/wallets/" + w.ID
	status, env := app.do(t, http.MethodPost, base+"/credit", map[string]string{"amount": "100.00", "idempotency_key": "seed-1"})
	require.Equal(t, http.StatusCreated, status)

	status, env = app.do(t, http.MethodPost, base+"/credit", map[string]string{"amount": "100.00", "idempotency_key": "seed-1"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[intentView](t, env).Replayed)

	status, env = app.do(t, http.MethodPost, base+"/reserve", map[string]string{"amount": "120.00"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LED_004", env.ErrorCode)

	status, env = app.do(t, http.MethodPost, base+"/reserve", map[string]string{"amount": "60.00"})
	require.Equal(t, http.StatusCreated, status)
	res := decode[intentView](t, env)
	assert.Equal(t, "40.00", res.Wallet.AvailableBalance)
	assert.Equal(t, "60.00", res.Wallet.ReservedBalance)

	status, env = app.do(t, http.MethodPost, base+"/release", map[string]string{"amount": "70.00"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LED_005", env.ErrorCode)

	status, env = app.do(t, http.MethodPost, base+"/refund-debit", map[string]string{"amount": "80.00"})
	require.Equal(t, http.StatusCreated, status)
	res = decode[intentView](t, env)
	assert.Equal(t, "20.00", res.Wallet.AvailableBalance)
	assert.Equal(t, "0.00", res.Wallet.ReservedBalance)

	status, env = app.do(t, http.MethodPost, "/api/v1/transactions/"+res.Transaction.ID+"/reverse", map[string]string{"reason": "support override"})
	require.Equal(t, http.StatusCreated, status)
	res = decode[intentView](t, env)
	assert.Equal(t, "adjustment", res.Transaction.Type)
	assert.Equal(t, "40.00", res.Wallet.AvailableBalance)
	assert.Equal(t, "60.00", res.Wallet.ReservedBalance)

	status, env = app.do(t, http.MethodGet, base+"/transactions?sort=desc&page_size=2", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[struct {
		Items []struct {
			Sequence int64 `json:"sequence"`
		} `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}](t, env)
	assert.EqualValues(t, 4, page.Pagination.TotalItems)
	require.Len(t, page.Items, 2)
	assert.EqualValues(t, 4, page.Items[0].Sequence)

	status, env = app.do(t, http.MethodGet, base+"/reconcile", nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[struct {
		Consistent bool `json:"consistent"`
		Entries    int  `json:"entries"`
	}](t, env)
	assert.True(t, report.Consistent)
	assert.Equal(t, 4, report.Entries)
}

func TestOrderSettlementFlow(t *testing.T) {
	app := newTestApp(t)
	shopper := uuid.New()
	orderID := app.seedOrder(shopper)
	base := "/api/v1/orders/" + orderID.String()

	status, env := app.do(t, http.MethodGet, base+"/settlement", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "LED_007", env.ErrorCode)

	status, env = app.do(t, http.MethodPost, base+"/complete", nil)
	require.Equal(t, http.StatusCreated, status)
	out := decode[settlementView](t, env)
	assert.Equal(t, "EARNED", out.Settlement.State)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, "199.50", out.Transactions[0].Amount)

	status, env = app.do(t, http.MethodPost, base+"/complete", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[settlementView](t, env).Replayed)

	status, env = app.do(t, http.MethodPost, base+"/payout", nil)
	require.Equal(t, http.StatusCreated, status)
	out = decode[settlementView](t, env)
	assert.Equal(t, "PAID_OUT", out.Settlement.State)
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, "reservation", out.Transactions[0].Type)
	assert.Equal(t, "payout", out.Transactions[1].Type)

	refundID := uuid.New()
	app.facts.putRefund(refundRow(refundID, orderID, "40.00"))
	status, env = app.do(t, http.MethodPost, base+"/refunds/"+refundID.String()+"/approve", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LED_006", env.ErrorCode)

	status, env = app.do(t, http.MethodGet, "/api/v1/wallets/"+out.Settlement.WalletID, nil)
	require.Equal(t, http.StatusOK, status)
	w := decode[walletView](t, env)
	assert.Equal(t, "0.00", w.AvailableBalance)
	assert.Equal(t, "0.00", w.ReservedBalance)
	assert.EqualValues(t, 3, w.Version)
}

func TestOrderRefundFlow(t *testing.T) {
	app := newTestApp(t)
	shopper := uuid.New()
	orderID := app.seedOrder(shopper)
	base := "/api/v1/orders/" + orderID.String()

	status, _ := app.do(t, http.MethodPost, base+"/complete", nil)
	require.Equal(t, http.StatusCreated, status)

	refundID := uuid.New()
	app.facts.putRefund(refundRow(refundID, orderID, "40.00"))

	status, env := app.do(t, http.MethodPost, base+"/refunds/"+refundID.String()+"/approve", nil)
	require.Equal(t, http.StatusCreated, status)
	out := decode[settlementView](t, env)
	assert.Equal(t, "REFUNDED", out.Settlement.State)

	status, env = app.do(t, http.MethodPost, base+"/refunds/"+refundID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[settlementView](t, env).Replayed)

	status, env = app.do(t, http.MethodPost, base+"/payout", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LED_006", env.ErrorCode)

	status, env = app.do(t, http.MethodGet, "/api/v1/wallets/"+out.Settlement.WalletID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "159.50", decode[walletView](t, env).AvailableBalance)

	status, env = app.do(t, http.MethodPost, base+"/refunds/"+uuid.NewString()+"/approve", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "LED_008", env.ErrorCode)
}

func TestRateLimiting(t *testing.T) {
	app := newTestApp(t, withRateLimit(2))
	orderID := app.seedOrder(uuid.New())

	// Settlement group gets half the write limit.
	status, _ := app.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", nil)
	require.Equal(t, http.StatusCreated, status)

	status, env := app.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_001", env.ErrorCode)

	// Redis failures degrade to allowing the request.
	app.redis.SetError("server down")
	status, _ = app.do(t, http.MethodGet, "/api/v1/orders/"+orderID.String()+"/settlement", nil)
	assert.Equal(t, http.StatusOK, status)
}
