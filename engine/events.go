package engine

// VehicleCheckedInEvent is emitted when a new journey opens at the gate.
type VehicleCheckedInEvent struct {
	VehicleID     int64  `json:"vehicle_id"`
	VehicleUUID   string `json:"vehicle_uuid"`
	VehicleNumber string `json:"vehicle_number"`
}

// StageStartedEvent is emitted on every accepted Start.
type StageStartedEvent struct {
	VehicleID     int64  `json:"vehicle_id"`
	VehicleNumber string `json:"vehicle_number"`
	StageName     string `json:"stage_name"`
	Role          string `json:"role"`
}

// StageCompletedEvent is emitted on every accepted End.
type StageCompletedEvent struct {
	VehicleID     int64  `json:"vehicle_id"`
	VehicleNumber string `json:"vehicle_number"`
	StageName     string `json:"stage_name"`
	Role          string `json:"role"`
	DurationMs    int64  `json:"duration_ms"`
}

// VehicleExitedEvent is emitted when a Security Gate End closes a journey.
type VehicleExitedEvent struct {
	VehicleID     int64  `json:"vehicle_id"`
	VehicleNumber string `json:"vehicle_number"`
}

// VehiclesResetEvent is emitted after an administrative bulk delete.
type VehiclesResetEvent struct {
	Deleted int64 `json:"deleted"`
}
