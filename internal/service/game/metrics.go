package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_sessions_created_total",
		Help: "Total game sessions created",
	})

	metricPlayersJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_players_joined_total",
		Help: "Total player joins across all sessions",
	})

	metricPlayersLeft = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_players_left_total",
		Help: "Total player departures across all sessions",
	})

	metricRoundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_rounds_started_total",
		Help: "Total rounds dealt",
	})

	metricSessionsReset = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_sessions_reset_total",
		Help: "Total session resets",
	})

	metricPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whoami_persistence_failures_total",
		Help: "Durable writes that failed while the in-memory mutation was kept",
	})
)
