// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPC metrics
	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobchat_rpc_duration_seconds",
			Help:    "gRPC handler duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
		},
		[]string{"method", "code"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobchat_rate_limit_hits_total",
			Help: "Requests rejected by the per-user rate limiter",
		},
		[]string{"method"},
	)

	// Messaging metrics
	RoomsEnsured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobchat_rooms_ensured_total",
			Help: "EnsureRoom calls by outcome",
		},
		[]string{"result"}, // "created" or "existing"
	)

	MessagesAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobchat_messages_appended_total",
			Help: "Messages appended to room logs",
		},
	)

	AppendRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobchat_append_rejected_total",
			Help: "Append calls rejected before reaching the store",
		},
		[]string{"reason"},
	)

	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobchat_active_subscriptions",
			Help: "Live listeners currently open",
		},
		[]string{"kind"}, // "room" or "inbox"
	)

	InboxRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobchat_inbox_recomputes_total",
			Help: "Inbox aggregations computed",
		},
	)

	InboxOmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobchat_inbox_omitted_total",
			Help: "Rooms left out of an inbox emission because a lookup failed",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	PresenceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobchat_presence_cache_lookups_total",
			Help: "Presence cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss" or "error"
	)
)
