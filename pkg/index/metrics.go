package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	memoHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentfinder_view_memo_hits_total",
		Help: "Views served from the memo without evaluating",
	})
	recomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "momentfinder_recompute_seconds",
		Help:    "Time spent recomputing a view in the background",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
	recomputeSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentfinder_recompute_superseded_total",
		Help: "Background recomputations discarded because a newer state arrived",
	})
	eligibleMoments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "momentfinder_eligible_moments",
		Help:    "Size of the eligible set of completed recomputations",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
