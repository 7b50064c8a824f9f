package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the checkout engine's Prometheus collectors.
type Metrics struct {
	CheckoutTotal    *prometheus.CounterVec
	CheckoutDuration prometheus.Histogram
	MovementsTotal   *prometheus.CounterVec
}

func New() *Metrics {
	checkoutTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"status"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "duration_seconds",
		Help:      "Checkout transaction latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
	movementsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "stock",
		Name:      "movements_total",
		Help:      "Stock ledger postings by reason.",
	}, []string{"reason"})

	prometheus.MustRegister(checkoutTotal, checkoutDuration, movementsTotal)
	return &Metrics{
		CheckoutTotal:    checkoutTotal,
		CheckoutDuration: checkoutDuration,
		MovementsTotal:   movementsTotal,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
