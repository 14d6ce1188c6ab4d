package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Presence
	OnlineConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_online_connections",
			Help: "Currently registered connections",
		},
	)

	WaitingEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_waiting_entries",
			Help: "Connections waiting for a partner",
		},
	)

	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_active_rooms",
			Help: "Live interview rooms",
		},
	)

	// Matchmaking
	MatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interview_matches_total",
			Help: "Total pairings produced",
		},
	)

	RoomsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_rooms_closed_total",
			Help: "Rooms torn down",
		},
		[]string{"reason"}, // "disconnect" or "ended"
	)

	// Routing
	EventsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_events_routed_total",
			Help: "Inbound events accepted by the router",
		},
		[]string{"event"},
	)

	EventErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_event_errors_total",
			Help: "Inbound events rejected by the router",
		},
		[]string{"code"},
	)

	DroppedDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_dropped_deliveries_total",
			Help: "Outbound frames that could not be queued",
		},
		[]string{"reason"}, // "backpressure" or "closed"
	)
)
