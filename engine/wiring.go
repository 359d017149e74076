package engine

import (
	"servicetrack/metrics"
)

// wireEventHandlers connects tracking events to metrics and debug logging.
func (e *Engine) wireEventHandlers() {
	e.Events.SubscribeTypes(func(evt Event) {
		p := evt.Payload.(VehicleCheckedInEvent)
		metrics.VehiclesCheckedIn.Inc()
		e.debugFn("vehicle checked in: %s (id=%d)", p.VehicleNumber, p.VehicleID)
	}, EventVehicleCheckedIn)

	e.Events.SubscribeTypes(func(evt Event) {
		p := evt.Payload.(StageStartedEvent)
		metrics.StageEventsAccepted.WithLabelValues(p.StageName, "Start").Inc()
		e.debugFn("stage started: %s %s by %s", p.VehicleNumber, p.StageName, p.Role)
	}, EventStageStarted)

	e.Events.SubscribeTypes(func(evt Event) {
		p := evt.Payload.(StageCompletedEvent)
		metrics.StageEventsAccepted.WithLabelValues(p.StageName, "End").Inc()
		metrics.StageDurationSeconds.WithLabelValues(p.StageName).Observe(float64(p.DurationMs) / 1000)
		e.debugFn("stage completed: %s %s in %dms", p.VehicleNumber, p.StageName, p.DurationMs)
	}, EventStageCompleted)

	e.Events.SubscribeTypes(func(evt Event) {
		p := evt.Payload.(VehicleExitedEvent)
		metrics.VehiclesExited.Inc()
		e.debugFn("vehicle exited: %s", p.VehicleNumber)
	}, EventVehicleExited)
}
