package tracking

import (
	"fmt"
	"time"

	"servicetrack/store"
)

// StillInProgress is the human-readable duration of an open interval.
const StillInProgress = "Still In Progress"

// StageInterval is a derived (never persisted) view of one stage visit.
// A nil EndTime means the stage is still open.
type StageInterval struct {
	StageName  string     `json:"stageName"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	DurationMs *int64     `json:"durationMs"`
	Duration   string     `json:"duration"`
}

// Reconstruct walks a vehicle's event log in append order and derives the
// stage timeline plus the currently open stage ("" if none). Bridging stages
// are closed by the first Start of their successor, not by an End event;
// everything else pairs with the first same-name End in the log. Results are
// recomputed on every call; nothing is cached.
func Reconstruct(log []store.StageEvent) ([]StageInterval, string) {
	timeline := []StageInterval{}
	var current string

	for _, e := range log {
		if e.EventType != EventStart {
			continue
		}

		end := pairedEnd(log, e.StageName)
		iv := StageInterval{
			StageName: e.StageName,
			StartTime: e.Timestamp,
			Duration:  StillInProgress,
		}
		if end != nil {
			t := *end
			ms := t.Sub(e.Timestamp).Milliseconds()
			iv.EndTime = &t
			iv.DurationMs = &ms
			iv.Duration = FormatDuration(t.Sub(e.Timestamp))
		} else {
			// Last open Start wins; the loop runs chronologically.
			current = e.StageName
		}
		timeline = append(timeline, iv)
	}
	return timeline, current
}

// pairedEnd resolves the closing timestamp for a stage per the shared pairing
// policy, or nil if the stage is open.
func pairedEnd(log []store.StageEvent, stageName string) *time.Time {
	if next, ok := BridgeSuccessor(stageName); ok {
		for _, e := range log {
			if e.StageName == next && e.EventType == EventStart {
				t := e.Timestamp
				return &t
			}
		}
		return nil
	}
	for _, e := range log {
		if e.StageName == stageName && e.EventType == EventEnd {
			t := e.Timestamp
			return &t
		}
	}
	return nil
}

// FormatDuration renders a duration as "{h}h {m}m {s}s" with floor division.
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, seconds%60)
}
