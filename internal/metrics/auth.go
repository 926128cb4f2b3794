package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by result (success, failure).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoadmin_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// AuthzDenials counts requests refused by a permission check.
	AuthzDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoadmin_authz_denials_total",
			Help: "Total number of requests denied by authorization checks",
		},
		[]string{"action"},
	)
)
