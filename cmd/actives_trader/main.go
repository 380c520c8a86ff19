package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"actives_trader/internal/config"
	"actives_trader/internal/fetch"
	"actives_trader/internal/logger"
	alpacamkt "actives_trader/internal/market/alpaca"
	"actives_trader/internal/metrics"
	"actives_trader/internal/screener"
	"actives_trader/internal/trader"
)

const LogFile = "trader.log"
const VersionFile = "version.latest"

// main is the entry point of the application.
func main() {
	// Load configuration first to get logger settings
	cfg := config.Load()
	cfg.Version = readVersion()

	logger.Setup(LogFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	// Context for graceful shutdown: canceling stops the scheduling of new
	// cycles without aborting the one in flight.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.Serve(cfg.MetricsAddr)

	provider := alpacamkt.NewProvider()

	scr := screener.New(cfg.FMPAPIKey, fetch.Policy{
		MaxAttempts:       2, // one bounded retry on rate limits
		BaseDelay:         cfg.FetchBaseDelay(),
		RateLimitCooldown: cfg.RateLimitCooldown(),
	})

	t := trader.New(cfg, provider, scr)

	// A blocked or unreachable account is the one startup failure worth
	// dying for; everything later degrades and retries instead.
	if err := t.VerifyAccount(); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Shutting down: system signal received.")
		cancel()
	}()

	log.Printf("Actives Trader %s Initialized", cfg.Version)
	log.Printf("Trade Interval: %d mins | Universe Refresh: %d hours | Monitoring top %d actives",
		cfg.TradeIntervalMins, cfg.RefreshIntervalHours, cfg.StocksToMonitor)

	t.Run(ctx)
}

func readVersion() string {
	// read version from VersionFile file
	version, err := os.ReadFile(VersionFile)
	if err != nil {
		return "v0.0.0-dev"
	}
	return string(version)
}
