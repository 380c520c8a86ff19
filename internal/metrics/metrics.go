// Package metrics exposes Prometheus instrumentation for the trading loop:
//
//   - trader_cycles_total{result}    – trade cycles by outcome (completed|market_closed|busy|failed)
//   - trader_decisions_total{action} – per-symbol decisions (buy|sell|hold|skip)
//   - trader_orders_total{side,result} – orders submitted, split by side and result
//   - trader_remaining_budget_usd   – in-cycle remaining budget snapshot (gauge)
//   - trader_universe_size          – size of the monitored universe (gauge)
//   - trader_fetch_retries_total{reason} – upstream retries by failure class
//
// Everything is registered in init() and served in Prometheus text format at
// /metrics by Serve.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_cycles_total",
			Help: "Trade cycles by outcome",
		},
		[]string{"result"},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_decisions_total",
			Help: "Per-symbol decisions taken",
		},
		[]string{"action"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_orders_total",
			Help: "Orders submitted, by side and result",
		},
		[]string{"side", "result"},
	)

	RemainingBudget = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_remaining_budget_usd",
			Help: "Remaining in-cycle budget in USD",
		},
	)

	UniverseSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_universe_size",
			Help: "Number of symbols currently monitored",
		},
	)

	FetchRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_fetch_retries_total",
			Help: "Upstream fetch retries by failure class",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		Cycles,
		Decisions,
		Orders,
		RemainingBudget,
		UniverseSize,
		FetchRetries,
	)
}

// Serve starts the /metrics endpoint in the background.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()
}
