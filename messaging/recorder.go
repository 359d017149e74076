package messaging

import (
	"encoding/json"
	"log"
	"time"

	"servicetrack/engine"
	"servicetrack/store"
)

// Recorder listens to engine events and enqueues stage-activity messages to
// the outbox. The drainer publishes them; a broker outage only delays the
// feed, it never blocks a submission.
type Recorder struct {
	db       *store.DB
	centerID string
	topic    string
}

// NewRecorder creates a Recorder.
func NewRecorder(db *store.DB, centerID, topic string) *Recorder {
	return &Recorder{db: db, centerID: centerID, topic: topic}
}

// Attach subscribes the recorder to the engine's event bus.
func (r *Recorder) Attach(bus *engine.EventBus) {
	bus.SubscribeTypes(func(evt engine.Event) {
		switch p := evt.Payload.(type) {
		case engine.VehicleCheckedInEvent:
			r.enqueue(MsgVehicleEntry, StageEventMessage{
				VehicleUUID:   p.VehicleUUID,
				VehicleNumber: p.VehicleNumber,
			})
		case engine.StageStartedEvent:
			r.enqueue(MsgStageEvent, StageEventMessage{
				VehicleNumber: p.VehicleNumber,
				StageName:     p.StageName,
				Role:          p.Role,
				EventType:     "Start",
			})
		case engine.StageCompletedEvent:
			r.enqueue(MsgStageEvent, StageEventMessage{
				VehicleNumber: p.VehicleNumber,
				StageName:     p.StageName,
				Role:          p.Role,
				EventType:     "End",
				DurationMs:    p.DurationMs,
			})
		case engine.VehicleExitedEvent:
			r.enqueue(MsgVehicleExit, StageEventMessage{
				VehicleNumber: p.VehicleNumber,
			})
		}
	}, engine.EventVehicleCheckedIn, engine.EventStageStarted, engine.EventStageCompleted, engine.EventVehicleExited)
}

func (r *Recorder) enqueue(msgType string, msg StageEventMessage) {
	msg.CenterID = r.centerID
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, _ := json.Marshal(msg)
	if _, err := r.db.EnqueueOutbox(r.topic, payload, msgType); err != nil {
		log.Printf("enqueue %s: %v", msgType, err)
	}
}
