package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "checkout",
		Name:      "sessions_started_total",
		Help:      "Checkout sessions started.",
	})

	stateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "checkout",
		Name:      "state_transitions_total",
		Help:      "Successful checkout state transitions by resulting state.",
	}, []string{"state"})

	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "checkout",
		Name:      "orders_created_total",
		Help:      "Orders created at confirmation.",
	})

	otpRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "checkout",
		Name:      "otp_rejections_total",
		Help:      "Rejected OTP submissions.",
	})
)
