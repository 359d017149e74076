package tracking

import (
	"time"

	"servicetrack/store"
)

// DefaultEndDebounce is the minimum gap between a stage's previous event and
// an End submission. Guards against double-taps from scanner clients.
const DefaultEndDebounce = 10 * time.Second

// Validator decides whether an incoming stage event is a legal transition
// given a vehicle's event log. It is stateless; all state lives in the log.
type Validator struct {
	endDebounce time.Duration
}

// NewValidator creates a Validator. A zero debounce selects the default.
func NewValidator(endDebounce time.Duration) *Validator {
	if endDebounce <= 0 {
		endDebounce = DefaultEndDebounce
	}
	return &Validator{endDebounce: endDebounce}
}

// Validate checks the incoming (stageName, eventType) against the log's tail
// state for that stage. Returns nil when the event may be appended, or a
// RejectionError with a specific reason.
//
// Bay-related stages are exempt from the single-open-interval rule: Start is
// always accepted, and End only needs some prior Start at that stage. The
// End debounce applies to every stage category.
func (v *Validator) Validate(log []store.StageEvent, stageName, eventType string, now time.Time) error {
	var related []store.StageEvent
	for _, e := range log {
		if e.StageName == stageName {
			related = append(related, e)
		}
	}
	var last *store.StageEvent
	if len(related) > 0 {
		last = &related[len(related)-1]
	}

	bay := IsBayRelated(stageName)

	switch eventType {
	case EventStart:
		if !bay && last != nil && last.EventType == EventEnd {
			return reject(ReasonAlreadyCompleted, "Cannot restart %s. It has already been completed.", stageName)
		}
		if !bay && last != nil && last.EventType == EventStart {
			return reject(ReasonAlreadyInProgress, "%s has already started. Complete it before starting again.", stageName)
		}
		return nil

	case EventEnd:
		if !bay && (last == nil || last.EventType != EventStart) {
			return reject(ReasonNotStarted, "%s was not started.", stageName)
		}
		if bay {
			started := false
			for _, e := range related {
				if e.EventType == EventStart {
					started = true
					break
				}
			}
			if !started {
				return reject(ReasonNeverStarted, "%s was never started.", stageName)
			}
		}
		if last != nil && now.Sub(last.Timestamp) < v.endDebounce {
			return reject(ReasonTooSoon, "Wait at least %d seconds before completing %s.", int(v.endDebounce.Seconds()), stageName)
		}
		return nil

	default:
		return reject(ReasonInvalidEventType, "Invalid event type.")
	}
}
