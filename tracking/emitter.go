package tracking

// EventEmitter is the interface the tracking package uses to emit events.
type EventEmitter interface {
	EmitVehicleCheckedIn(vehicleID int64, vehicleUUID, vehicleNumber string)
	EmitStageStarted(vehicleID int64, vehicleNumber, stageName, role string)
	EmitStageCompleted(vehicleID int64, vehicleNumber, stageName, role string, durationMs int64)
	EmitVehicleExited(vehicleID int64, vehicleNumber string)
}
