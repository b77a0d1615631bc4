package handler

import (
	"net/http"

	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Wallets        ports.WalletManager
	Engine         ports.SettlementEngine
	Money          *money.Context
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	RateLimitRules map[string]middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	Metrics        http.Handler // nil = /metrics not exposed
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := deps.RateLimitRules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}
	read, write, settle := rl(middleware.GroupRead), rl(middleware.GroupWrite), rl(middleware.GroupSettlement)

	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.Wallets, deps.Money)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", write, walletHandler.GetOrCreate)
		wallets.GET("/:id", read, walletHandler.Get)
		wallets.GET("/:id/transactions", read, walletHandler.ListTransactions)
		wallets.GET("/:id/reconcile", read, walletHandler.Reconcile)
		wallets.POST("/:id/reserve", write, walletHandler.Reserve)
		wallets.POST("/:id/release", write, walletHandler.Release)
		wallets.POST("/:id/credit", write, walletHandler.Credit)
		wallets.POST("/:id/payout", write, walletHandler.Payout)
		wallets.POST("/:id/refund-debit", write, walletHandler.RefundDebit)
		wallets.POST("/:id/adjust", write, walletHandler.Adjust)
	}
	v1.POST("/transactions/:id/reverse", write, walletHandler.Reverse)

	orderHandler := NewOrderHandler(deps.Engine)
	orders := v1.Group("/orders/:id")
	{
		orders.POST("/complete", settle, orderHandler.Complete)
		orders.POST("/payout", settle, orderHandler.Payout)
		orders.POST("/refunds/:refund_id/approve", settle, orderHandler.ApproveRefund)
		orders.GET("/settlement", read, orderHandler.Settlement)
	}

	return r
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
