// Package metrics exposes exchange counters over a prometheus listener.
// The core stays metrics-free; the CLI/daemon surface records outcomes
// here.
package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kexd/kexd/log"
)

var (
	// Registry holds every kexd collector.
	Registry = prometheus.NewRegistry()

	// ExchangeCounter counts completed key exchanges per group and
	// result ("ok" or "error").
	ExchangeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kexd_exchange_total",
		Help: "Number of Diffie-Hellman exchanges performed",
	}, []string{"group", "result"})

	// ExchangeDuration observes the wall time of a full exchange
	// (public value plus shared secret) per group.
	ExchangeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kexd_exchange_duration_seconds",
		Help:    "Duration of a full Diffie-Hellman exchange",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"group"})

	metricsBound = false
)

func bindMetrics() {
	if metricsBound {
		return
	}
	metricsBound = true

	Registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		ExchangeCounter,
		ExchangeDuration,
	)
}

// Start serves /metrics on bind and returns the listener, or nil when
// binding fails. Serving happens on a background goroutine.
func Start(bind string) net.Listener {
	bindMetrics()

	l, err := net.Listen("tcp", bind)
	if err != nil {
		log.DefaultLogger().Warnw("metrics listen failed", "bind", bind, "err", err)
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
	s := http.Server{Addr: l.Addr().String(), Handler: mux}
	go func() {
		log.DefaultLogger().Warnw("metrics server stopped", "err", s.Serve(l))
	}()
	log.DefaultLogger().Debugw("metrics listener started", "at", l.Addr().String())
	return l
}
