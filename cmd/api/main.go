package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/adapter/metrics"
	memStorage "wallet-ledger/internal/adapter/storage/memory"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Local development: pick up WLG_* variables from .env if present.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("WLG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Ledger.Store).
		Msg("Starting Wallet Ledger")

	mc, err := cfg.Ledger.MoneyContext()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid money settings")
	}

	ctx := context.Background()

	// Order facts live in Postgres regardless of the ledger backend.
	pool, err := pgStorage.NewPool(ctx, cfg.Database, cfg.Ledger.OperationTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	checkers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}
	facts := pgStorage.NewOrderFactsRepo(pool, mc)

	var store ports.LedgerStore
	switch cfg.Ledger.Store {
	case config.StorePostgres:
		store = pgStorage.NewLedgerStore(pool, mc, logger.Component(log, "ledger_store"))
	default:
		log.Warn().Msg("Using in-memory ledger store; balances are lost on restart")
		store = memStorage.NewLedgerStore(mc)
	}

	var (
		cache          ports.SettlementCache
		rateLimitStore middleware.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, cfg.Ledger.OperationTimeout, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		cache = redisStorage.NewSettlementCache(rdb, mc)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
	}

	ledgerMetrics := metrics.New(prometheus.DefaultRegisterer)

	recorder := service.NewTransactionRecorder(store, ledgerMetrics, logger.Component(log, "recorder"))
	wallets := service.NewWalletManager(store, recorder, mc, cfg.Ledger.OperationTimeout, logger.Component(log, "wallets"))
	engine := service.NewSettlementEngine(
		wallets,
		store,
		facts,
		cache,
		ledgerMetrics,
		mc,
		cfg.Settlement,
		logger.Component(log, "settlement"),
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Wallets:        wallets,
		Engine:         engine,
		Money:          mc,
		RateLimitStore: rateLimitStore,
		RateLimitRules: middleware.RateLimitRules(cfg.RateLimit),
		HealthCheckers: checkers,
		Metrics:        httpHandler.MetricsHandler(),
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
