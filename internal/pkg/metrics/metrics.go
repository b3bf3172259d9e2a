// Package metrics defines and registers all custom Prometheus metrics for the
// leaderboard API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init;
// they are exposed on GET /metrics together with the HTTP metrics collected by
// the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leaderboard"

// ── Claim metrics ─────────────────────────────────────────────────────────────

// ClaimsTotal counts claim attempts by outcome.
// Label:
//   - result: "granted", "replayed", "invalid", "not_found" or "error"
var ClaimsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claims_total",
		Help:      "Total number of claim attempts, by result.",
	},
	[]string{"result"},
)

// PointsAwarded observes the points granted by each successful claim.
var PointsAwarded = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "points_awarded",
		Help:      "Distribution of points granted per claim.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10), // 1..10
	},
)

// ClaimDuration measures a claim from validation to the history write.
var ClaimDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "claim_duration_seconds",
		Help:      "Duration of the claim operation including both store writes.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ClaimReplayTotal counts idempotency-key lookups.
// Label:
//   - result: "hit" (stored result replayed) or "miss"
var ClaimReplayTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_replay_total",
		Help:      "Total number of idempotency-key lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// DispatcherQueueDepth tracks pending claims in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatcherQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatcher_queue_depth",
		Help:      "Current number of claims pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users added to the leaderboard.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users added to the leaderboard.",
	},
)
