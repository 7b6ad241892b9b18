package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"studymart-checkout/internal/cart"
	"studymart-checkout/internal/checkout"
	"studymart-checkout/internal/client"
	"studymart-checkout/internal/config"
	"studymart-checkout/internal/logger"
	"studymart-checkout/internal/metrics"
	"studymart-checkout/internal/presenter"
	"studymart-checkout/internal/repository"
	"studymart-checkout/internal/storefront"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		return 1
	}
	if err := cfg.ValidateStorefront(); err != nil {
		fmt.Printf("Invalid storefront config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log, cfg.Environment.Name)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cart.NewStore()
	p := presenter.NewOutcomePresenter(presenter.NewTerminalSurface(os.Stdout))

	if cfg.Redis.Addr != "" {
		rdb, err := client.InitRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", zap.Error(err))
			return 1
		}
		defer rdb.Close()

		unsubscribe, err := storefront.RestoreCart(ctx, store, repository.NewCartRepository(rdb, cfg.Redis.CartTTL), cfg.Checkout.SessionID, log)
		if err != nil {
			log.Error("failed to restore cart", zap.Error(err))
			return 1
		}
		defer unsubscribe()
	}

	items, err := storefront.LoadCartFile(cfg.Checkout.CartFile)
	if err != nil {
		log.Error("failed to load cart file", zap.Error(err))
		return 1
	}
	storefront.FillCart(store, items, p)

	processor, err := storefront.NewProcessor(cfg)
	if err != nil {
		log.Error("failed to build processor", zap.Error(err))
		return 1
	}

	orders := client.NewOrderClient(&cfg.Checkout)
	if err := storefront.Preflight(ctx, orders, p); err != nil {
		log.Error("order api not ready", zap.Error(err))
		return 1
	}

	navigator := storefront.NewHistoryNavigator(presenter.NewTerminalNavigator(os.Stdout), orders, os.Stdout, log)

	reg := prometheus.NewRegistry()
	orchestrator := checkout.NewOrchestrator(store, processor, processor, orders, p,
		checkout.WithMerchantName(cfg.Checkout.MerchantName),
		checkout.WithLogger(log),
		checkout.WithMetrics(metrics.NewCheckoutMetrics(reg)),
		checkout.WithNavigator(navigator),
	)

	outcome, err := orchestrator.Checkout(ctx)
	pushMetrics(cfg, reg, log)
	if err != nil {
		log.Error("checkout not started", zap.Error(err))
		return 1
	}
	if !outcome.Succeeded() {
		return 1
	}
	return 0
}

// pushMetrics sends the attempt's checkout metrics to the Pushgateway when one is configured.
func pushMetrics(cfg *config.Config, reg *prometheus.Registry, log *zap.Logger) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Metrics.PushTimeout)
	defer cancel()

	grouping := map[string]string{"session": cfg.Checkout.SessionID}
	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, reg, grouping); err != nil {
		log.Warn("failed to push checkout metrics", zap.Error(err))
	}
}
