// Package metrics declares the Prometheus metrics the simulator exports.
// Everything registers with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stocksim"

// TradesTotal counts buy and sell attempts.
// Labels:
//   - side: "buy" or "sell"
//   - outcome: "ok" or a short failure reason (e.g. "insufficient_funds")
var TradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_total",
		Help:      "Total number of trade attempts by side and outcome.",
	},
	[]string{"side", "outcome"},
)

// AuthEventsTotal counts registrations and logins.
// Labels:
//   - event: "register", "login" or "logout"
//   - outcome: "ok" or a short failure reason
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events by outcome.",
	},
	[]string{"event", "outcome"},
)

// QuoteLookupsTotal counts quote provider calls.
// Labels:
//   - provider: "simulated" or "polygon"
//   - result: "hit", "miss" or "error"
var QuoteLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_lookups_total",
		Help:      "Total number of quote lookups by provider and result.",
	},
	[]string{"provider", "result"},
)

// QuoteLookupDuration measures provider latency.
var QuoteLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_lookup_duration_seconds",
		Help:      "Duration of quote provider lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// HTTPRequestDuration measures handler latency.
// Labels:
//   - method: HTTP method
//   - route: the registered gin route, not the raw path
//   - status: HTTP status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
