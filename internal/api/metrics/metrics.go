// Package metrics defines and registers all custom Prometheus metrics for
// the OpsDesk console gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// SignInsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts rejected bearer tokens on protected routes.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "revoked"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected requests on protected routes, by reason.",
	},
	[]string{"reason"},
)

// TokenRevocationsTotal counts tokens placed on the denylist by sign-out.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of tokens revoked via logout.",
	},
)

// LoginDuration measures end-to-end login handling, including bcrypt.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login handling from bind to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditEventsTotal counts auth trail entries successfully recorded.
// Label:
//   - kind: "login_succeeded", "login_failed", "logged_out", "token_rejected"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of auth trail entries recorded, by kind.",
	},
	[]string{"kind"},
)

// AuditErrorsTotal counts auth trail entries that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of auth trail entries that failed processing.",
	},
	[]string{"reason"},
)

// AuditDedupTotal counts replay-check decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new entry, recorded)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit replay checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks entries waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
