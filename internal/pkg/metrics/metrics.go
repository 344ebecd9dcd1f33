// Package metrics defines the custom Prometheus collectors of the user
// service. It is the single source of truth for metric names, labels, and help
// strings.
//
// Collectors register themselves with the default registry on package load;
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts entity cache reads.
// Label:
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of entity cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// CacheErrorsTotal counts failed cache operations that did not abort the request.
// Label:
//   - op: "get", "refresh" or "evict"
var CacheErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_errors_total",
		Help:      "Total number of entity cache operations that failed.",
	},
	[]string{"op"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts password authentications.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of password authentication attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests turned away by the access guard.
// Label:
//   - reason: "missing", "invalid", "expired" or "forbidden"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by bearer token checks, by reason.",
	},
	[]string{"reason"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registered_total",
		Help:      "Total number of users registered.",
	},
)
