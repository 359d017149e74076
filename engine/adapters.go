package engine

// trackingEmitter adapts the engine's EventBus to the tracking.EventEmitter interface.
type trackingEmitter struct {
	bus *EventBus
}

func (e *trackingEmitter) EmitVehicleCheckedIn(vehicleID int64, vehicleUUID, vehicleNumber string) {
	e.bus.Emit(Event{Type: EventVehicleCheckedIn, Payload: VehicleCheckedInEvent{
		VehicleID: vehicleID, VehicleUUID: vehicleUUID, VehicleNumber: vehicleNumber,
	}})
}

func (e *trackingEmitter) EmitStageStarted(vehicleID int64, vehicleNumber, stageName, role string) {
	e.bus.Emit(Event{Type: EventStageStarted, Payload: StageStartedEvent{
		VehicleID: vehicleID, VehicleNumber: vehicleNumber, StageName: stageName, Role: role,
	}})
}

func (e *trackingEmitter) EmitStageCompleted(vehicleID int64, vehicleNumber, stageName, role string, durationMs int64) {
	e.bus.Emit(Event{Type: EventStageCompleted, Payload: StageCompletedEvent{
		VehicleID: vehicleID, VehicleNumber: vehicleNumber, StageName: stageName, Role: role, DurationMs: durationMs,
	}})
}

func (e *trackingEmitter) EmitVehicleExited(vehicleID int64, vehicleNumber string) {
	e.bus.Emit(Event{Type: EventVehicleExited, Payload: VehicleExitedEvent{
		VehicleID: vehicleID, VehicleNumber: vehicleNumber,
	}})
}
