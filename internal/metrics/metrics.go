package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordcast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordcast_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// GamesStarted counts created sessions by language and mode
	GamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordcast_games_started_total",
			Help: "Total number of game sessions started",
		},
		[]string{"language", "mode"},
	)

	// GuessesSubmitted counts accepted guesses
	GuessesSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordcast_guesses_total",
			Help: "Total number of accepted guesses",
		},
	)

	// GamesCompleted counts durable completions by result and whether a
	// ranked score was recorded
	GamesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordcast_games_completed_total",
			Help: "Total number of completed games",
		},
		[]string{"result", "recorded"},
	)

	// RewardsPaid counts weekly prizes sent by rank
	RewardsPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordcast_rewards_paid_total",
			Help: "Total number of weekly prizes paid out",
		},
		[]string{"rank"},
	)
)
