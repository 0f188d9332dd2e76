package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for dispatch cycle monitoring
var (
	// dispatchCyclesTotal tracks completed dispatch cycles by outcome
	dispatchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_dispatch_cycles_total",
			Help: "Total number of dispatch cycles",
		},
		[]string{"outcome"}, // outcome: completed|skipped_private|post_not_found|rules_error
	)

	// targetsResolvedTotal tracks resolved notification targets per provider
	targetsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_targets_resolved_total",
			Help: "Total number of notification targets resolved by the matching engine",
		},
		[]string{"provider", "filter"},
	)

	// deliveriesTotal tracks delivery results per provider
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_deliveries_total",
			Help: "Total number of delivery attempts",
		},
		[]string{"provider", "status"}, // status: success|failure
	)

	// deliveryDuration tracks per-target delivery duration
	deliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_delivery_duration_seconds",
			Help:    "Delivery duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// deliveriesDroppedTotal tracks deliveries skipped before any attempt
	deliveriesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_deliveries_dropped_total",
			Help: "Total number of deliveries dropped before an attempt was made",
		},
		[]string{"provider", "reason"}, // reason: muted|circuit_open
	)

	// providersEnabled reports the number of enabled providers
	providersEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_providers_enabled",
			Help: "Number of enabled chat providers",
		},
	)
)

func recordCycle(outcome string) {
	dispatchCyclesTotal.WithLabelValues(outcome).Inc()
}

func recordTargetResolved(provider string, filter string) {
	targetsResolvedTotal.WithLabelValues(provider, filter).Inc()
}

func recordDeliverySuccess(provider string, d time.Duration) {
	deliveriesTotal.WithLabelValues(provider, "success").Inc()
	deliveryDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func recordDeliveryFailure(provider string, d time.Duration) {
	deliveriesTotal.WithLabelValues(provider, "failure").Inc()
	deliveryDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func recordDropped(provider string, reason string) {
	deliveriesDroppedTotal.WithLabelValues(provider, reason).Inc()
}

func setProvidersEnabled(n int) {
	providersEnabled.Set(float64(n))
}
