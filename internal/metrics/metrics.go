// Package metrics exposes Prometheus counters and gauges for the live
// trading loop. Collectors are package-level and registered at init time;
// Serve starts the /metrics endpoint when a listen address is configured.
package metrics

import (
	"net/http"
	"time"

	"binance-trade-bot-go/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PollCycles counts completed polling cycles.
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradebot_poll_cycles_total",
		Help: "Completed polling cycles.",
	})

	// OrdersSubmitted counts orders accepted by the exchange, by side.
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradebot_orders_submitted_total",
		Help: "Orders accepted by the exchange.",
	}, []string{"side"})

	// OrdersFilled counts orders observed as filled, by side.
	OrdersFilled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradebot_orders_filled_total",
		Help: "Orders observed as filled.",
	}, []string{"side"})

	// OrderErrors counts failed order submissions, by kind (rejected, transient, other).
	OrderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradebot_order_errors_total",
		Help: "Failed order submissions.",
	}, []string{"kind"})

	// BalanceRefreshes counts account balance refreshes.
	BalanceRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradebot_balance_refreshes_total",
		Help: "Account balance refreshes.",
	})

	// ActivePairs reports how many pairs are currently eligible for entry.
	ActivePairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradebot_active_pairs",
		Help: "Pairs currently eligible for a new entry.",
	})

	// OpenOrders reports how many orders are currently open.
	OpenOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradebot_open_orders",
		Help: "Orders currently open.",
	})
)

// Serve exposes /metrics on addr in a background goroutine. An empty addr
// disables the endpoint.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.S().Infow("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.S().Errorw("metrics endpoint failed", "error", err)
		}
	}()
}
