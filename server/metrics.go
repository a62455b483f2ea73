package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recall",
		Name:      "turns_total",
		Help:      "Conversation turns processed, by outcome.",
	}, []string{"outcome"})

	memoryUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recall",
		Name:      "memory_updates_total",
		Help:      "Turns in which the model invoked update_memory and the merge was persisted.",
	})
)
