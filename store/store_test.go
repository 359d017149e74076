package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"servicetrack/config"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

// --- Vehicle tests ---

func TestVehicleCreateAndGet(t *testing.T) {
	db := testDB(t)

	entry := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	km := 42500.0
	driver := "Ravi"
	v := &Vehicle{
		UUID:          "uuid-1",
		VehicleNumber: "MH12AB1234",
		EntryTime:     entry,
		Stages: []StageEvent{{
			StageName: "Security Gate",
			Role:      "Security Guard",
			EventType: "Start",
			Timestamp: entry,
			InKM:      &km,
			InDriver:  &driver,
		}},
	}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("ID should be assigned")
	}
	if v.Version != 1 {
		t.Errorf("Version = %d, want 1", v.Version)
	}
	if v.Stages[0].ID == 0 {
		t.Fatal("stage event ID should be assigned")
	}

	got, err := db.GetVehicle(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.VehicleNumber != "MH12AB1234" {
		t.Errorf("VehicleNumber = %q, want %q", got.VehicleNumber, "MH12AB1234")
	}
	if !got.EntryTime.Equal(entry) {
		t.Errorf("EntryTime = %v, want %v", got.EntryTime, entry)
	}
	if got.ExitTime != nil {
		t.Errorf("ExitTime = %v, want nil", got.ExitTime)
	}
	if len(got.Stages) != 1 {
		t.Fatalf("stages len = %d, want 1", len(got.Stages))
	}
	e := got.Stages[0]
	if e.InKM == nil || *e.InKM != 42500.0 {
		t.Errorf("InKM = %v, want 42500", e.InKM)
	}
	if e.InDriver == nil || *e.InDriver != "Ravi" {
		t.Errorf("InDriver = %v, want Ravi", e.InDriver)
	}
	if e.OutKM != nil {
		t.Errorf("OutKM = %v, want nil", e.OutKM)
	}
}

func TestGetLatestVehicleByNumber(t *testing.T) {
	db := testDB(t)

	got, err := db.GetLatestVehicleByNumber("MH12AB1234")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown number")
	}

	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	db.CreateVehicle(&Vehicle{UUID: "uuid-1", VehicleNumber: "MH12AB1234", EntryTime: t1})
	v2 := &Vehicle{UUID: "uuid-2", VehicleNumber: "MH12AB1234", EntryTime: t2}
	db.CreateVehicle(v2)

	got, err = db.GetLatestVehicleByNumber("MH12AB1234")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.ID != v2.ID {
		t.Errorf("latest ID = %d, want %d", got.ID, v2.ID)
	}
}

func TestAppendStageEvent(t *testing.T) {
	db := testDB(t)

	entry := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	v := &Vehicle{UUID: "uuid-1", VehicleNumber: "MH12AB1234", EntryTime: entry,
		Stages: []StageEvent{{StageName: "Security Gate", Role: "Security Guard", EventType: "Start", Timestamp: entry}}}
	db.CreateVehicle(v)

	e := &StageEvent{StageName: "Washing", Role: "Washer", EventType: "Start", Timestamp: entry.Add(time.Minute)}
	if err := db.AppendStageEvent(v.ID, 1, e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("event ID should be assigned")
	}

	got, _ := db.GetVehicle(v.ID)
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if len(got.Stages) != 2 {
		t.Fatalf("stages len = %d, want 2", len(got.Stages))
	}
	// Append order preserved
	if got.Stages[0].StageName != "Security Gate" || got.Stages[1].StageName != "Washing" {
		t.Errorf("order = %q, %q", got.Stages[0].StageName, got.Stages[1].StageName)
	}
}

func TestAppendStageEventVersionConflict(t *testing.T) {
	db := testDB(t)

	entry := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	v := &Vehicle{UUID: "uuid-1", VehicleNumber: "MH12AB1234", EntryTime: entry}
	db.CreateVehicle(v)

	e1 := &StageEvent{StageName: "Washing", Role: "Washer", EventType: "Start", Timestamp: entry}
	if err := db.AppendStageEvent(v.ID, 1, e1); err != nil {
		t.Fatalf("first append: %v", err)
	}

	// Stale version must be rejected and must not write the event.
	e2 := &StageEvent{StageName: "Washing", Role: "Washer", EventType: "End", Timestamp: entry}
	err := db.AppendStageEvent(v.ID, 1, e2)
	if err != ErrVersionConflict {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	got, _ := db.GetVehicle(v.ID)
	if len(got.Stages) != 1 {
		t.Errorf("stages len = %d, want 1", len(got.Stages))
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
}

func TestSetVehicleExitTime(t *testing.T) {
	db := testDB(t)

	entry := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	v := &Vehicle{UUID: "uuid-1", VehicleNumber: "MH12AB1234", EntryTime: entry}
	db.CreateVehicle(v)

	exit := entry.Add(3 * time.Hour)
	if err := db.SetVehicleExitTime(v.ID, exit); err != nil {
		t.Fatalf("set exit: %v", err)
	}
	got, _ := db.GetVehicle(v.ID)
	if got.ExitTime == nil || !got.ExitTime.Equal(exit) {
		t.Errorf("ExitTime = %v, want %v", got.ExitTime, exit)
	}
}

func TestListVehicles(t *testing.T) {
	db := testDB(t)

	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	db.CreateVehicle(&Vehicle{UUID: "u1", VehicleNumber: "KA01CD5678", EntryTime: t1})
	db.CreateVehicle(&Vehicle{UUID: "u2", VehicleNumber: "MH12AB1234", EntryTime: t1.Add(time.Hour)})

	vehicles, err := db.ListVehicles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("len = %d, want 2", len(vehicles))
	}
	// Newest first
	if vehicles[0].VehicleNumber != "MH12AB1234" {
		t.Errorf("first = %q, want MH12AB1234", vehicles[0].VehicleNumber)
	}
}

func TestListVehiclesWithStage(t *testing.T) {
	db := testDB(t)

	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	v1 := &Vehicle{UUID: "u1", VehicleNumber: "MH12AB1234", EntryTime: t1,
		Stages: []StageEvent{
			{StageName: "Bay Allocation Started", Role: "Bay Technician", EventType: "Start", Timestamp: t1},
			{StageName: "Bay Allocation Started", Role: "Bay Technician", EventType: "End", Timestamp: t1.Add(time.Minute)},
		}}
	db.CreateVehicle(v1)
	db.CreateVehicle(&Vehicle{UUID: "u2", VehicleNumber: "KA01CD5678", EntryTime: t1,
		Stages: []StageEvent{{StageName: "Washing", Role: "Washer", EventType: "Start", Timestamp: t1}}})

	// Any event type
	got, err := db.ListVehiclesWithStage("Bay Allocation Started", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != v1.ID {
		t.Fatalf("got %d vehicles", len(got))
	}
	// A vehicle with both Start and End still appears once.
	if len(got[0].Stages) != 2 {
		t.Errorf("stages len = %d, want 2", len(got[0].Stages))
	}

	// Narrowed to Start
	got2, _ := db.ListVehiclesWithStage("Washing", "Start")
	if len(got2) != 1 || got2[0].UUID != "u2" {
		t.Errorf("washing start = %d vehicles", len(got2))
	}
	got3, _ := db.ListVehiclesWithStage("Washing", "End")
	if len(got3) != 0 {
		t.Errorf("washing end = %d vehicles, want 0", len(got3))
	}
}

func TestDeleteAllVehicles(t *testing.T) {
	db := testDB(t)

	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	db.CreateVehicle(&Vehicle{UUID: "u1", VehicleNumber: "MH12AB1234", EntryTime: t1,
		Stages: []StageEvent{{StageName: "Washing", Role: "Washer", EventType: "Start", Timestamp: t1}}})
	db.CreateVehicle(&Vehicle{UUID: "u2", VehicleNumber: "KA01CD5678", EntryTime: t1})

	deleted, err := db.DeleteAllVehicles()
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	vehicles, _ := db.ListVehicles()
	if len(vehicles) != 0 {
		t.Errorf("len after delete = %d, want 0", len(vehicles))
	}
	var events int
	if err := db.QueryRow(`SELECT COUNT(*) FROM stage_events`).Scan(&events); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 0 {
		t.Errorf("stage_events after delete = %d, want 0", events)
	}
}

// --- User tests ---

func TestUserCRUD(t *testing.T) {
	db := testDB(t)

	email := "asha@example.com"
	u := &User{Name: "Asha", Mobile: "9876543210", Email: &email, PasswordHash: "x", Role: "Admin"}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("ID should be assigned")
	}

	got, err := db.GetUserByMobileRole("9876543210", "Admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "Asha" {
		t.Fatalf("got = %+v", got)
	}

	// Role must match
	miss, err := db.GetUserByMobileRole("9876543210", "Washer")
	if err != nil {
		t.Fatalf("get wrong role: %v", err)
	}
	if miss != nil {
		t.Error("expected nil for wrong role")
	}

	exists, _ := db.UserExistsByMobile("9876543210")
	if !exists {
		t.Error("exists should be true")
	}
	exists, _ = db.UserExistsByMobile("0000000000")
	if exists {
		t.Error("exists should be false")
	}

	users, _ := db.ListUsers()
	if len(users) != 1 {
		t.Errorf("len = %d, want 1", len(users))
	}
}

// --- Outbox tests ---

func TestOutboxCRUD(t *testing.T) {
	db := testDB(t)

	id, err := db.EnqueueOutbox("servicetrack/stage-events", []byte(`{"test":true}`), "stage_event")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if id == 0 {
		t.Fatal("id should be assigned")
	}
	db.EnqueueOutbox("servicetrack/stage-events", []byte(`{"test":2}`), "vehicle_exit")

	msgs, err := db.ListPendingOutbox(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].MsgType != "stage_event" {
		t.Errorf("msg_type = %q, want stage_event", msgs[0].MsgType)
	}

	db.AckOutbox(msgs[0].ID)
	msgs2, _ := db.ListPendingOutbox(10)
	if len(msgs2) != 1 {
		t.Errorf("pending after ack = %d, want 1", len(msgs2))
	}

	db.IncrementOutboxRetries(msgs2[0].ID)
	msgs3, _ := db.ListPendingOutbox(10)
	if msgs3[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", msgs3[0].Retries)
	}
}

// --- Dialect tests ---

func TestRebind(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT * FROM t WHERE a=? AND b=?", "SELECT * FROM t WHERE a=$1 AND b=$2"},
		{"INSERT INTO t (a) VALUES (?)", "INSERT INTO t (a) VALUES ($1)"},
		{"SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		got := Rebind(tt.input)
		if got != tt.want {
			t.Errorf("Rebind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
