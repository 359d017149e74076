package messaging

// Message types placed on the outbox.
const (
	MsgStageEvent   = "stage_event"
	MsgVehicleExit  = "vehicle_exit"
	MsgVehicleEntry = "vehicle_entry"
)

// StageEventMessage is the outbound stage-activity feed JSON.
type StageEventMessage struct {
	CenterID      string `json:"center_id"`
	VehicleUUID   string `json:"vehicle_uuid,omitempty"`
	VehicleNumber string `json:"vehicle_number"`
	StageName     string `json:"stage_name,omitempty"`
	Role          string `json:"role,omitempty"`
	EventType     string `json:"event_type,omitempty"`
	DurationMs    int64  `json:"duration_ms,omitempty"`
	Timestamp     string `json:"timestamp"`
}
