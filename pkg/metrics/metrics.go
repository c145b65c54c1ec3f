// Package metrics holds the application counters exposed next to the
// ginprom request metrics on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "capital"

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	TokenRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "token_rejections_total",
		Help:      "Bearer tokens rejected by reason.",
	}, []string{"reason"})

	ResetRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "password_reset",
		Name:      "requests_total",
		Help:      "Password reset requests by outcome.",
	}, []string{"outcome"})

	ResetCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "password_reset",
		Name:      "completions_total",
		Help:      "Password reset completions by result.",
	}, []string{"result"})

	RemindersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reminders",
		Name:      "created_total",
		Help:      "Installment reminders created.",
	})
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
