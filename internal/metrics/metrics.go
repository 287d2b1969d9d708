package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ModeBasic    = "basic"
	ModeDetailed = "detailed"

	CollaboratorCandidate = "candidate"
	CollaboratorLocation  = "location"
	CollaboratorCategory  = "category"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of match requests by scoring mode",
		},
		[]string{"mode"},
	)

	MatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_request_duration_seconds",
			Help:    "Duration of match orchestration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	MatchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_results_returned",
			Help:    "Number of match results returned per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	LookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_lookup_failures_total",
			Help: "Collaborator lookups that failed and were degraded",
		},
		[]string{"collaborator"},
	)
)

func Mode(detailed bool) string {
	if detailed {
		return ModeDetailed
	}
	return ModeBasic
}
