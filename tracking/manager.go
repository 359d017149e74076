package tracking

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"servicetrack/store"

	"github.com/google/uuid"
)

// VehicleStore is the persistence collaborator for vehicle journeys.
// Implemented by store.DB.
type VehicleStore interface {
	GetLatestVehicleByNumber(number string) (*store.Vehicle, error)
	CreateVehicle(v *store.Vehicle) error
	AppendStageEvent(vehicleID, expectedVersion int64, e *store.StageEvent) error
	SetVehicleExitTime(vehicleID int64, t time.Time) error
	ListVehicles() ([]store.Vehicle, error)
	ListVehiclesWithStage(stageName, eventType string) ([]store.Vehicle, error)
	DeleteAllVehicles() (int64, error)
}

// Manager orchestrates validate-and-append for stage events. Writes for the
// same vehicle number are serialized by a per-key mutex, and the store's
// version check catches races with other processes.
type Manager struct {
	db        VehicleStore
	validator *Validator
	emitter   EventEmitter
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a tracking manager.
func NewManager(db VehicleStore, emitter EventEmitter, endDebounce time.Duration) *Manager {
	return &Manager{
		db:        db,
		validator: NewValidator(endDebounce),
		emitter:   emitter,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lockFor(number string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[number]
	if !ok {
		l = &sync.Mutex{}
		m.locks[number] = l
	}
	return l
}

// SubmitEvent validates and appends one stage event. Returns the updated (or
// newly created) journey and whether a new journey was opened. On rejection
// the log is unchanged and the error carries a RejectionError.
func (m *Manager) SubmitEvent(req EventRequest) (*store.Vehicle, bool, error) {
	if req.VehicleNumber == "" || req.Role == "" || req.StageName == "" || req.EventType == "" {
		return nil, false, reject(ReasonMissingFields, "Required fields are missing.")
	}
	if req.EventType != EventStart && req.EventType != EventEnd {
		return nil, false, reject(ReasonInvalidEventType, "Invalid event type.")
	}

	number := NormalizeNumber(req.VehicleNumber)
	lock := m.lockFor(number)
	lock.Lock()
	defer lock.Unlock()

	now := m.now()

	vehicle, err := m.db.GetLatestVehicleByNumber(number)
	if err != nil {
		return nil, false, fmt.Errorf("find vehicle %s: %w", number, err)
	}

	// First check-in, or the previous journey has exited: open a new journey.
	if vehicle == nil || (vehicle.ExitTime != nil && !vehicle.ExitTime.After(now)) {
		vehicle = &store.Vehicle{
			UUID:          uuid.New().String(),
			VehicleNumber: number,
			EntryTime:     now,
			Stages:        []store.StageEvent{m.buildEvent(req, now)},
		}
		if err := m.db.CreateVehicle(vehicle); err != nil {
			return nil, false, fmt.Errorf("create vehicle %s: %w", number, err)
		}
		m.emitter.EmitVehicleCheckedIn(vehicle.ID, vehicle.UUID, number)
		if req.EventType == EventStart {
			m.emitter.EmitStageStarted(vehicle.ID, number, req.StageName, req.Role)
		}
		return vehicle, true, nil
	}

	if err := m.validator.Validate(vehicle.Stages, req.StageName, req.EventType, now); err != nil {
		return nil, false, err
	}

	event := m.buildEvent(req, now)
	if err := m.db.AppendStageEvent(vehicle.ID, vehicle.Version, &event); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, false, reject(ReasonConflict, "Another update for %s won the race. Please retry.", number)
		}
		return nil, false, fmt.Errorf("append event for %s: %w", number, err)
	}
	vehicle.Stages = append(vehicle.Stages, event)
	vehicle.Version++

	switch req.EventType {
	case EventStart:
		m.emitter.EmitStageStarted(vehicle.ID, number, req.StageName, req.Role)
	case EventEnd:
		m.emitter.EmitStageCompleted(vehicle.ID, number, req.StageName, req.Role, durationSinceStart(vehicle.Stages, req.StageName, now))
	}

	// A Security Gate End by the Security Guard closes the journey.
	if req.Role == RoleSecurityGuard && req.StageName == StageSecurityGate && req.EventType == EventEnd {
		if err := m.db.SetVehicleExitTime(vehicle.ID, now); err != nil {
			return nil, false, fmt.Errorf("set exit time for %s: %w", number, err)
		}
		exit := now
		vehicle.ExitTime = &exit
		m.emitter.EmitVehicleExited(vehicle.ID, number)
	}

	return vehicle, false, nil
}

// buildEvent populates role-specific attributes: odometer and driver fields
// for the Security Guard, work type and bay number for the Bay Technician on
// Start. Other roles produce bare events.
func (m *Manager) buildEvent(req EventRequest, now time.Time) store.StageEvent {
	e := store.StageEvent{
		StageName: req.StageName,
		Role:      req.Role,
		EventType: req.EventType,
		Timestamp: now,
	}
	switch req.Role {
	case RoleSecurityGuard:
		if req.EventType == EventStart {
			e.InKM = req.InKM
			e.InDriver = req.InDriver
		} else {
			e.OutKM = req.OutKM
			e.OutDriver = req.OutDriver
		}
	case RoleBayTechnician:
		if req.EventType == EventStart {
			e.WorkType = req.WorkType
			e.BayNumber = req.BayNumber
		}
	}
	return e
}

// durationSinceStart measures back to the most recent Start at the same
// stage, for the completion event payload. Zero if no Start exists.
func durationSinceStart(log []store.StageEvent, stageName string, now time.Time) int64 {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].StageName == stageName && log[i].EventType == EventStart {
			return now.Sub(log[i].Timestamp).Milliseconds()
		}
	}
	return 0
}
