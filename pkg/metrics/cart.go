package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records outcomes and latency of cart operations.
type CartMetrics struct {
	duration  *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
	cartItems prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart operations in seconds, including catalog lookups.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_total",
		Help: "Cart operations by outcome.",
	}, []string{"operation", "outcome"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_line_items",
		Help: "Number of distinct line items currently in the cart.",
	})
	reg.MustRegister(duration, outcomes, cartItems)
	return &CartMetrics{
		duration:  duration,
		outcomes:  outcomes,
		cartItems: cartItems,
	}
}

// ObserveOperation records the outcome and duration of one operation.
func (c *CartMetrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	if c == nil || c.outcomes == nil {
		return
	}
	op := normalizeLabel(operation)
	c.duration.WithLabelValues(op).Observe(duration.Seconds())
	c.outcomes.WithLabelValues(op, normalizeLabel(outcome)).Inc()
}

// SetLineItems records the current cart size.
func (c *CartMetrics) SetLineItems(n int) {
	if c == nil || c.cartItems == nil {
		return
	}
	c.cartItems.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
