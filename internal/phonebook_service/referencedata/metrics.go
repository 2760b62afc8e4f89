package referencedata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	referenceCacheCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonebook",
			Name:      "reference_cache_lookups_total",
			Help:      "Reference data cache lookups.",
		},
		[]string{"resource", "result"}, // result: hit, miss
	)

	referenceFetchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonebook",
			Name:      "reference_fetches_total",
			Help:      "Upstream reference data fetches.",
		},
		[]string{"resource", "outcome"}, // outcome: success, error
	)

	referenceFetchDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "phonebook",
			Name:      "reference_fetch_duration_seconds",
			Help:      "Duration of upstream reference data requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource"},
	)
)
