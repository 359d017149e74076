package tracking

import (
	"errors"
	"fmt"
)

// Reason is a machine-distinguishable rejection code returned to callers.
type Reason string

const (
	ReasonAlreadyCompleted  Reason = "AlreadyCompleted"
	ReasonAlreadyInProgress Reason = "AlreadyInProgress"
	ReasonNotStarted        Reason = "NotStarted"
	ReasonNeverStarted      Reason = "NeverStarted"
	ReasonTooSoon           Reason = "TooSoon"
	ReasonInvalidEventType  Reason = "InvalidEventType"
	ReasonMissingFields     Reason = "MissingFields"
	// ReasonConflict surfaces a lost write race; the caller should resubmit.
	ReasonConflict Reason = "Conflict"
)

// RejectionError is a refused submission. The event log is unchanged.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func reject(reason Reason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps a RejectionError if err carries one.
func AsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// EventRequest is an inbound stage-event submission.
type EventRequest struct {
	VehicleNumber string   `json:"vehicleNumber"`
	Role          string   `json:"role"`
	StageName     string   `json:"stageName"`
	EventType     string   `json:"eventType"`
	InKM          *float64 `json:"inKM"`
	OutKM         *float64 `json:"outKM"`
	InDriver      *string  `json:"inDriver"`
	OutDriver     *string  `json:"outDriver"`
	WorkType      *string  `json:"workType"`
	BayNumber     *string  `json:"bayNumber"`
}
