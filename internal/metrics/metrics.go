package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SegmentDownloadsTotal counts prefetch downloads by outcome
	// ("success", "failed", "cached").
	SegmentDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_downloads_total",
			Help: "Total number of segment prefetch downloads.",
		},
		[]string{"status"},
	)

	// ResolveAttemptsTotal counts fallback steps taken by the resolver,
	// labeled by step name and whether it produced a playable result.
	ResolveAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_attempts_total",
			Help: "Total number of resolver fallback attempts.",
		},
		[]string{"step", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		SegmentDownloadsTotal,
		ResolveAttemptsTotal,
	)
}
