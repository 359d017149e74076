package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrVersionConflict is returned when an append lost a write race and the
// caller must re-read and re-validate.
var ErrVersionConflict = errors.New("vehicle version conflict")

// Vehicle is one service-center journey for a vehicle number. A new record is
// created each time a vehicle checks in after its previous journey exited.
type Vehicle struct {
	ID            int64        `json:"id"`
	UUID          string       `json:"uuid"`
	VehicleNumber string       `json:"vehicleNumber"`
	EntryTime     time.Time    `json:"entryTime"`
	ExitTime      *time.Time   `json:"exitTime"`
	Version       int64        `json:"-"`
	Stages        []StageEvent `json:"stages"`
}

// StageEvent is one timestamped Start/End marker in a vehicle's journey.
// The role-specific attributes are NULL unless the submitting role sets them.
type StageEvent struct {
	ID        int64     `json:"id"`
	VehicleID int64     `json:"-"`
	StageName string    `json:"stageName"`
	Role      string    `json:"role"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	InKM      *float64  `json:"inKM"`
	OutKM     *float64  `json:"outKM"`
	InDriver  *string   `json:"inDriver"`
	OutDriver *string   `json:"outDriver"`
	WorkType  *string   `json:"workType"`
	BayNumber *string   `json:"bayNumber"`
}

// CreateVehicle inserts a new vehicle journey along with any initial stage
// events, atomically. IDs are assigned on return.
func (db *DB) CreateVehicle(v *Vehicle) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(db.Q(`INSERT INTO vehicles (uuid, vehicle_number, entry_time, exit_time, version) VALUES (?, ?, ?, ?, 1) RETURNING id`),
		v.UUID, v.VehicleNumber, fmtTime(v.EntryTime), fmtTimePtr(v.ExitTime)).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	v.Version = 1

	for i := range v.Stages {
		e := &v.Stages[i]
		e.VehicleID = v.ID
		if err := insertStageEvent(tx, db, e); err != nil {
			return fmt.Errorf("create vehicle event: %w", err)
		}
	}
	return tx.Commit()
}

func insertStageEvent(tx *sql.Tx, db *DB, e *StageEvent) error {
	return tx.QueryRow(db.Q(`INSERT INTO stage_events (vehicle_id, stage_name, role, event_type, timestamp, in_km, out_km, in_driver, out_driver, work_type, bay_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		e.VehicleID, e.StageName, e.Role, e.EventType, fmtTime(e.Timestamp),
		e.InKM, e.OutKM, e.InDriver, e.OutDriver, e.WorkType, e.BayNumber).Scan(&e.ID)
}

// AppendStageEvent appends one event to a vehicle's log, guarded by an
// optimistic version check. Returns ErrVersionConflict if another writer got
// there first; the caller re-reads and re-validates.
func (db *DB) AppendStageEvent(vehicleID, expectedVersion int64, e *StageEvent) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(db.Q(`UPDATE vehicles SET version = version + 1 WHERE id = ? AND version = ?`),
		vehicleID, expectedVersion)
	if err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrVersionConflict
	}

	e.VehicleID = vehicleID
	if err := insertStageEvent(tx, db, e); err != nil {
		return fmt.Errorf("insert stage event: %w", err)
	}
	return tx.Commit()
}

// SetVehicleExitTime stamps the journey's exit time.
func (db *DB) SetVehicleExitTime(vehicleID int64, t time.Time) error {
	_, err := db.Exec(db.Q(`UPDATE vehicles SET exit_time = ? WHERE id = ?`), fmtTime(t), vehicleID)
	return err
}

// GetLatestVehicleByNumber returns the most recently created journey for a
// normalized vehicle number with its full event log, or nil if none exists.
func (db *DB) GetLatestVehicleByNumber(number string) (*Vehicle, error) {
	v := &Vehicle{}
	var entry, exit any
	err := db.QueryRow(db.Q(`SELECT id, uuid, vehicle_number, entry_time, exit_time, version
		FROM vehicles WHERE vehicle_number = ? ORDER BY entry_time DESC, id DESC LIMIT 1`), number).
		Scan(&v.ID, &v.UUID, &v.VehicleNumber, &entry, &exit, &v.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.EntryTime = parseTime(entry)
	v.ExitTime = parseTimePtr(exit)
	if v.Stages, err = db.listStageEvents(v.ID); err != nil {
		return nil, err
	}
	return v, nil
}

// GetVehicle returns one journey by ID with its full event log.
func (db *DB) GetVehicle(id int64) (*Vehicle, error) {
	v := &Vehicle{}
	var entry, exit any
	err := db.QueryRow(db.Q(`SELECT id, uuid, vehicle_number, entry_time, exit_time, version FROM vehicles WHERE id = ?`), id).
		Scan(&v.ID, &v.UUID, &v.VehicleNumber, &entry, &exit, &v.Version)
	if err != nil {
		return nil, err
	}
	v.EntryTime = parseTime(entry)
	v.ExitTime = parseTimePtr(exit)
	if v.Stages, err = db.listStageEvents(v.ID); err != nil {
		return nil, err
	}
	return v, nil
}

// ListVehicles returns every journey newest-first, event logs included.
func (db *DB) ListVehicles() ([]Vehicle, error) {
	rows, err := db.Query(`SELECT id, uuid, vehicle_number, entry_time, exit_time, version FROM vehicles ORDER BY entry_time DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		var entry, exit any
		if err := rows.Scan(&v.ID, &v.UUID, &v.VehicleNumber, &entry, &exit, &v.Version); err != nil {
			return nil, err
		}
		v.EntryTime = parseTime(entry)
		v.ExitTime = parseTimePtr(exit)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range vehicles {
		if vehicles[i].Stages, err = db.listStageEvents(vehicles[i].ID); err != nil {
			return nil, err
		}
	}
	return vehicles, nil
}

// ListVehiclesWithStage returns journeys that have at least one event at the
// given stage, optionally narrowed to one event type ("" matches any).
func (db *DB) ListVehiclesWithStage(stageName, eventType string) ([]Vehicle, error) {
	query := `SELECT DISTINCT v.id, v.uuid, v.vehicle_number, v.entry_time, v.exit_time, v.version
		FROM vehicles v JOIN stage_events e ON e.vehicle_id = v.id
		WHERE e.stage_name = ?`
	args := []any{stageName}
	if eventType != "" {
		query += ` AND e.event_type = ?`
		args = append(args, eventType)
	}
	query += ` ORDER BY v.entry_time DESC, v.id DESC`

	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		var entry, exit any
		if err := rows.Scan(&v.ID, &v.UUID, &v.VehicleNumber, &entry, &exit, &v.Version); err != nil {
			return nil, err
		}
		v.EntryTime = parseTime(entry)
		v.ExitTime = parseTimePtr(exit)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range vehicles {
		if vehicles[i].Stages, err = db.listStageEvents(vehicles[i].ID); err != nil {
			return nil, err
		}
	}
	return vehicles, nil
}

// listStageEvents returns a journey's events in append order.
func (db *DB) listStageEvents(vehicleID int64) ([]StageEvent, error) {
	rows, err := db.Query(db.Q(`SELECT id, vehicle_id, stage_name, role, event_type, timestamp, in_km, out_km, in_driver, out_driver, work_type, bay_number
		FROM stage_events WHERE vehicle_id = ? ORDER BY id`), vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StageEvent
	for rows.Next() {
		var e StageEvent
		var ts any
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.StageName, &e.Role, &e.EventType, &ts,
			&e.InKM, &e.OutKM, &e.InDriver, &e.OutDriver, &e.WorkType, &e.BayNumber); err != nil {
			return nil, err
		}
		e.Timestamp = parseTime(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteAllVehicles removes every journey and its events. Administrative reset.
func (db *DB) DeleteAllVehicles() (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stage_events`); err != nil {
		return 0, err
	}
	res, err := tx.Exec(`DELETE FROM vehicles`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
