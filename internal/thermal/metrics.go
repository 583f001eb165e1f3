package thermal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputeRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rackheat_field_recomputes_total",
		Help: "Number of times the sample+normalize pipeline actually ran.",
	})

	recomputeHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rackheat_field_recompute_hits_total",
		Help: "Number of pipeline requests served from the memoized snapshot.",
	})

	sampleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rackheat_field_sample_duration_seconds",
		Help:    "Wall time of one sample+normalize pass.",
		Buckets: prometheus.DefBuckets,
	})

	samplePoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rackheat_field_points",
		Help: "Query points evaluated in the most recent pipeline run.",
	})
)
