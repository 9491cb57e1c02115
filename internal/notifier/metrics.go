package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "notifier",
		Name:      "dispatched_total",
		Help:      "Total number of notification payloads written to the relay topic.",
	}, []string{"type"})

	dispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "notifier",
		Name:      "dispatch_failures_total",
		Help:      "Total number of notification payloads dropped after a write failure.",
	}, []string{"type"})
)
