package tracking

import (
	"testing"
	"time"

	"servicetrack/store"
)

func TestReconstructSimplePair(t *testing.T) {
	log := []store.StageEvent{
		ev("Washing", EventStart, t0),
		ev("Washing", EventEnd, t0.Add(30*time.Minute)),
	}
	timeline, current := Reconstruct(log)
	if len(timeline) != 1 {
		t.Fatalf("len = %d, want 1", len(timeline))
	}
	iv := timeline[0]
	if iv.StageName != "Washing" {
		t.Errorf("StageName = %q", iv.StageName)
	}
	if iv.EndTime == nil || !iv.EndTime.Equal(t0.Add(30*time.Minute)) {
		t.Errorf("EndTime = %v", iv.EndTime)
	}
	if iv.DurationMs == nil || *iv.DurationMs != 30*60*1000 {
		t.Errorf("DurationMs = %v", iv.DurationMs)
	}
	if iv.Duration != "0h 30m 0s" {
		t.Errorf("Duration = %q", iv.Duration)
	}
	if current != "" {
		t.Errorf("current = %q, want empty", current)
	}
}

func TestReconstructOpenStage(t *testing.T) {
	log := []store.StageEvent{ev("Washing", EventStart, t0)}
	timeline, current := Reconstruct(log)
	if len(timeline) != 1 {
		t.Fatalf("len = %d, want 1", len(timeline))
	}
	iv := timeline[0]
	if iv.EndTime != nil || iv.DurationMs != nil {
		t.Errorf("open interval should have nil end: %+v", iv)
	}
	if iv.Duration != StillInProgress {
		t.Errorf("Duration = %q", iv.Duration)
	}
	if current != "Washing" {
		t.Errorf("current = %q, want Washing", current)
	}
}

// Bridging stages close on the successor's first Start, not on an End event.
func TestReconstructBridging(t *testing.T) {
	t1 := t0
	t2 := t0.Add(20 * time.Minute)
	t3 := t0.Add(50 * time.Minute)
	log := []store.StageEvent{
		ev(StageJobCard, EventStart, t1),
		ev(StageBayAllocation, EventStart, t2),
		ev(StageMaintenance, EventStart, t3),
	}
	timeline, current := Reconstruct(log)
	if len(timeline) != 3 {
		t.Fatalf("len = %d, want 3", len(timeline))
	}

	// Job Card closed by Bay Allocation's Start
	if timeline[0].EndTime == nil || !timeline[0].EndTime.Equal(t2) {
		t.Errorf("job card end = %v, want %v", timeline[0].EndTime, t2)
	}
	if *timeline[0].DurationMs != 20*60*1000 {
		t.Errorf("job card duration = %d", *timeline[0].DurationMs)
	}

	// Bay Allocation closed by Maintenance's Start
	if timeline[1].EndTime == nil || !timeline[1].EndTime.Equal(t3) {
		t.Errorf("bay allocation end = %v, want %v", timeline[1].EndTime, t3)
	}
	if *timeline[1].DurationMs != 30*60*1000 {
		t.Errorf("bay allocation duration = %d", *timeline[1].DurationMs)
	}

	// Maintenance is open and is the current stage
	if timeline[2].EndTime != nil {
		t.Errorf("maintenance end = %v, want nil", timeline[2].EndTime)
	}
	if current != StageMaintenance {
		t.Errorf("current = %q, want %q", current, StageMaintenance)
	}
}

// A bridging stage with no successor Start stays open even if an explicit
// End event exists for it.
func TestReconstructBridgingIgnoresOwnEnd(t *testing.T) {
	log := []store.StageEvent{
		ev(StageJobCard, EventStart, t0),
		ev(StageJobCard, EventEnd, t0.Add(10*time.Minute)),
	}
	timeline, current := Reconstruct(log)
	if timeline[0].EndTime != nil {
		t.Errorf("end = %v, want nil", timeline[0].EndTime)
	}
	if current != StageJobCard {
		t.Errorf("current = %q", current)
	}
}

func TestReconstructLastOpenStartWins(t *testing.T) {
	log := []store.StageEvent{
		ev("Washing", EventStart, t0),
		ev("Washing", EventEnd, t0.Add(10*time.Minute)),
		ev("Final Inspection", EventStart, t0.Add(20*time.Minute)),
		ev(StageBayAllocation, EventStart, t0.Add(30*time.Minute)),
	}
	_, current := Reconstruct(log)
	if current != StageBayAllocation {
		t.Errorf("current = %q, want %q", current, StageBayAllocation)
	}
}

func TestReconstructEmptyLog(t *testing.T) {
	timeline, current := Reconstruct(nil)
	if len(timeline) != 0 {
		t.Errorf("len = %d, want 0", len(timeline))
	}
	if current != "" {
		t.Errorf("current = %q", current)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m 0s"},
		{45 * time.Second, "0h 0m 45s"},
		{90 * time.Minute, "1h 30m 0s"},
		{26*time.Hour + 3*time.Minute + 9*time.Second, "26h 3m 9s"},
		{1500 * time.Millisecond, "0h 0m 1s"}, // floor
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
