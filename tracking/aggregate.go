package tracking

import (
	"sort"
	"time"

	"servicetrack/store"
)

// StageStat is the fleet-wide average time spent in one stage.
type StageStat struct {
	StageName string  `json:"stageName"`
	AvgTime   float64 `json:"avgTime"` // milliseconds
}

// StageCount is the number of distinct vehicles that visited one stage.
type StageCount struct {
	StageName     string `json:"stageName"`
	TotalVehicles int    `json:"totalVehicles"`
}

// PendingStage is a started stage with no matching End yet.
type PendingStage struct {
	VehicleNumber string    `json:"vehicleNumber"`
	StageName     string    `json:"stageName"`
	StartedAt     time.Time `json:"startedAt"`
}

// VehicleTimeline is a vehicle's derived journey for dashboard listings.
type VehicleTimeline struct {
	VehicleNumber string          `json:"vehicleNumber"`
	CurrentStage  *string         `json:"currentStage"`
	StageTimeline []StageInterval `json:"stageTimeline"`
}

// StagePerformance averages resolved stage durations across the fleet using
// the shared pairing policy. Stages with no resolved (start, end) pair are
// omitted entirely rather than reported as zero.
func StagePerformance(vehicles []store.Vehicle) []StageStat {
	type acc struct {
		total time.Duration
		count int
	}
	data := make(map[string]*acc)

	for _, v := range vehicles {
		for _, e := range v.Stages {
			if e.EventType != EventStart {
				continue
			}
			end := pairedEnd(v.Stages, e.StageName)
			if end == nil {
				continue
			}
			a := data[e.StageName]
			if a == nil {
				a = &acc{}
				data[e.StageName] = a
			}
			a.total += end.Sub(e.Timestamp)
			a.count++
		}
	}

	stats := make([]StageStat, 0, len(data))
	for name, a := range data {
		stats = append(stats, StageStat{
			StageName: name,
			AvgTime:   float64(a.total.Milliseconds()) / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].StageName < stats[j].StageName })
	return stats
}

// VehicleCountPerStage counts distinct vehicles per stage. A vehicle visiting
// a stage several times counts once.
func VehicleCountPerStage(vehicles []store.Vehicle) []StageCount {
	counts := make(map[string]int)
	for _, v := range vehicles {
		seen := make(map[string]struct{})
		for _, e := range v.Stages {
			seen[e.StageName] = struct{}{}
		}
		for name := range seen {
			counts[name]++
		}
	}

	out := make([]StageCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, StageCount{StageName: name, TotalVehicles: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageName < out[j].StageName })
	return out
}

// PendingVehicles lists every Start with no later same-stage End. This is a
// deliberate same-name match, not the bridged pairing: the report answers
// "which scans were never explicitly closed", so a bridging stage stays
// listed until someone ends it even after its successor began.
func PendingVehicles(vehicles []store.Vehicle) []PendingStage {
	pending := []PendingStage{}
	for _, v := range vehicles {
		for _, e := range v.Stages {
			if e.EventType != EventStart {
				continue
			}
			closed := false
			for _, s := range v.Stages {
				if s.StageName == e.StageName && s.EventType == EventEnd && s.Timestamp.After(e.Timestamp) {
					closed = true
					break
				}
			}
			if !closed {
				pending = append(pending, PendingStage{
					VehicleNumber: v.VehicleNumber,
					StageName:     e.StageName,
					StartedAt:     e.Timestamp,
				})
			}
		}
	}
	return pending
}

// AllVehicleTimelines applies timeline reconstruction to every vehicle.
func AllVehicleTimelines(vehicles []store.Vehicle) []VehicleTimeline {
	out := make([]VehicleTimeline, 0, len(vehicles))
	for _, v := range vehicles {
		timeline, current := Reconstruct(v.Stages)
		vt := VehicleTimeline{
			VehicleNumber: v.VehicleNumber,
			StageTimeline: timeline,
		}
		if current != "" {
			c := current
			vt.CurrentStage = &c
		}
		out = append(out, vt)
	}
	return out
}
