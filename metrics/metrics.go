package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VehiclesCheckedIn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetrack_vehicles_checked_in_total",
		Help: "Total number of new vehicle journeys opened at the gate.",
	})

	VehiclesExited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetrack_vehicles_exited_total",
		Help: "Total number of journeys closed by a Security Gate exit.",
	})

	StageEventsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servicetrack_stage_events_accepted_total",
		Help: "Total accepted stage events, labelled by stage and event type.",
	}, []string{"stage", "event_type"})

	StageEventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servicetrack_stage_events_rejected_total",
		Help: "Total rejected stage events, labelled by rejection reason.",
	}, []string{"reason"})

	StageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "servicetrack_stage_duration_seconds",
		Help:    "Time between a stage Start and its explicit End, labelled by stage.",
		Buckets: []float64{30, 60, 300, 900, 1800, 3600, 7200, 14400, 28800},
	}, []string{"stage"})
)
