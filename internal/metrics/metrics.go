package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solace_messages_total",
			Help: "Total number of user messages received",
		},
		[]string{"transport"},
	)

	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solace_replies_total",
			Help: "Total number of replies sent, by reply kind",
		},
		[]string{"kind"},
	)

	CrisisDetectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solace_crisis_detections_total",
			Help: "Total number of messages that matched crisis keywords",
		},
	)

	ClassifierRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solace_classifier_requests_total",
			Help: "Total number of classifier API calls",
		},
		[]string{"provider", "model", "status"},
	)

	ClassifierRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "solace_classifier_request_duration_seconds",
			Help: "Duration of classifier API calls in seconds",
		},
		[]string{"provider", "model"},
	)

	ActiveChatSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solace_active_chat_sessions",
			Help: "Number of currently open websocket chat sessions",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solace_rate_limited_total",
			Help: "Total number of messages rejected by the rate limiter",
		},
	)
)
