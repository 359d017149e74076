package messaging

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"servicetrack/config"
	"servicetrack/engine"
	"servicetrack/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecorderEnqueuesStageEvents(t *testing.T) {
	db := testDB(t)
	bus := engine.NewEventBus()
	rec := NewRecorder(db, "center-pune-01", "servicetrack/stage-events")
	rec.Attach(bus)

	bus.Emit(engine.Event{Type: engine.EventVehicleCheckedIn, Payload: engine.VehicleCheckedInEvent{
		VehicleID: 1, VehicleUUID: "uuid-1", VehicleNumber: "MH12AB1234",
	}})
	bus.Emit(engine.Event{Type: engine.EventStageStarted, Payload: engine.StageStartedEvent{
		VehicleID: 1, VehicleNumber: "MH12AB1234", StageName: "Washing", Role: "Washing",
	}})
	bus.Emit(engine.Event{Type: engine.EventStageCompleted, Payload: engine.StageCompletedEvent{
		VehicleID: 1, VehicleNumber: "MH12AB1234", StageName: "Washing", Role: "Washing", DurationMs: 60000,
	}})
	bus.Emit(engine.Event{Type: engine.EventVehicleExited, Payload: engine.VehicleExitedEvent{
		VehicleID: 1, VehicleNumber: "MH12AB1234",
	}})
	// Reset events are not part of the feed
	bus.Emit(engine.Event{Type: engine.EventVehiclesReset, Payload: engine.VehiclesResetEvent{Deleted: 3}})

	msgs, err := db.ListPendingOutbox(10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	if msgs[0].MsgType != MsgVehicleEntry {
		t.Errorf("msgs[0] type = %q, want %q", msgs[0].MsgType, MsgVehicleEntry)
	}
	if msgs[3].MsgType != MsgVehicleExit {
		t.Errorf("msgs[3] type = %q, want %q", msgs[3].MsgType, MsgVehicleExit)
	}

	var m StageEventMessage
	if err := json.Unmarshal(msgs[2].Payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.CenterID != "center-pune-01" {
		t.Errorf("CenterID = %q", m.CenterID)
	}
	if m.StageName != "Washing" || m.EventType != "End" || m.DurationMs != 60000 {
		t.Errorf("payload = %+v", m)
	}
	if m.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
	if msgs[2].Topic != "servicetrack/stage-events" {
		t.Errorf("topic = %q", msgs[2].Topic)
	}
}
