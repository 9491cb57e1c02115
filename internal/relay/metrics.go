package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relayDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "relay",
		Name:      "delivered_total",
		Help:      "Total number of notifications delivered to the messaging channel.",
	})

	relayFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "relay",
		Name:      "failed_total",
		Help:      "Total number of notifications that exhausted delivery attempts.",
	})
)
