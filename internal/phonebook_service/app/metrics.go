package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemMutationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonebook",
			Name:      "item_mutations_total",
			Help:      "Phonebook item create/update/delete attempts.",
		},
		[]string{"operation", "outcome"}, // outcome: success, invalid, not_found, error
	)

	validationFailuresCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonebook",
			Name:      "validation_failures_total",
			Help:      "Phonebook items rejected by validation.",
		},
		[]string{"operation"},
	)

	eventPublishFailuresCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonebook",
			Name:      "event_publish_failures_total",
			Help:      "Item events that could not be published.",
		},
		[]string{"event_type"},
	)
)
