// Package metrics exposes the engine's Prometheus counters.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Strategy evaluations performed"},
		[]string{"strategy"},
	)
	TickSkipsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tick_skips_total", Help: "Ticks skipped because market data was unavailable"},
		[]string{"strategy"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals produced by strategies"},
		[]string{"strategy", "action"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders by kind and outcome"},
		[]string{"kind", "status"},
	)
	ExecutionSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "execution_seconds",
		Help:    "Venue round-trip time per order",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
	})
)

func init() {
	prometheus.MustRegister(TicksTotal, TickSkipsTotal, SignalsTotal, OrdersTotal, ExecutionSeconds)
}

// Serve starts a /metrics endpoint in the background. Callers own shutdown of the returned server.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
