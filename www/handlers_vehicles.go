package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"servicetrack/engine"
	"servicetrack/metrics"
	"servicetrack/store"
	"servicetrack/tracking"

	"github.com/go-chi/chi/v5"
)

// apiVehicleCheck handles stage-event submissions from scanner clients.
func (h *Handlers) apiVehicleCheck(w http.ResponseWriter, r *http.Request) {
	var req tracking.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, string(tracking.ReasonMissingFields), "Invalid request body.")
		return
	}

	vehicle, newJourney, err := h.engine.Tracker().SubmitEvent(req)
	if err != nil {
		if re, ok := tracking.AsRejection(err); ok {
			metrics.StageEventsRejected.WithLabelValues(string(re.Reason)).Inc()
			writeFailure(w, rejectionStatus(re), string(re.Reason), re.Message)
			return
		}
		log.Printf("vehicle-check %s: %v", req.VehicleNumber, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}

	if newJourney {
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":    true,
			"newVehicle": true,
			"message":    "New vehicle entry recorded.",
			"vehicle":    vehicle,
		})
		return
	}

	verb := "started"
	if req.EventType == tracking.EventEnd {
		verb = "completed"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s %s.", req.StageName, verb),
		"vehicle": vehicle,
	})
}

func (h *Handlers) apiListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("list vehicles: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if len(vehicles) == 0 {
		writeFailure(w, http.StatusNotFound, "", "No vehicles found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "vehicles": vehicles})
}

func (h *Handlers) apiGetVehicle(w http.ResponseWriter, r *http.Request) {
	number := tracking.NormalizeNumber(chi.URLParam(r, "vehicleNumber"))
	vehicle, err := h.engine.DB().GetLatestVehicleByNumber(number)
	if err != nil {
		log.Printf("get vehicle %s: %v", number, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if vehicle == nil {
		writeFailure(w, http.StatusNotFound, "", "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "vehicle": vehicle})
}

func (h *Handlers) apiBayAllocationInProgress(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehiclesWithStage(tracking.StageBayAllocation, "")
	if err != nil {
		log.Printf("bay allocation in progress: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "vehicles": vehicles})
}

func (h *Handlers) apiInteractiveStarted(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehiclesWithStage(tracking.StageInteractiveBay, tracking.EventStart)
	if err != nil {
		log.Printf("interactive started: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if len(vehicles) == 0 {
		writeFailure(w, http.StatusNotFound, "", "Vehicle not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "vehicles": vehicles})
}

// apiFinishedInteractiveBay lists vehicles with both a Start and an End at
// the Interactive Bay stage.
func (h *Handlers) apiFinishedInteractiveBay(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("finished interactive bay: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}

	finished := []store.Vehicle{}
	for _, v := range vehicles {
		hasStart, hasEnd := false, false
		for _, e := range v.Stages {
			if e.StageName != tracking.StageInteractiveBay {
				continue
			}
			switch e.EventType {
			case tracking.EventStart:
				hasStart = true
			case tracking.EventEnd:
				hasEnd = true
			}
		}
		if hasStart && hasEnd {
			finished = append(finished, v)
		}
	}

	if len(finished) == 0 {
		writeFailure(w, http.StatusNotFound, "", "No vehicles found with completed Interactive Bay.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "vehicles": finished})
}

// apiDeleteVehicles removes every journey. Admin-only reset.
func (h *Handlers) apiDeleteVehicles(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.engine.DB().DeleteAllVehicles()
	if err != nil {
		log.Printf("delete vehicles: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	h.engine.Events.Emit(engine.Event{Type: engine.EventVehiclesReset, Payload: engine.VehiclesResetEvent{Deleted: deleted}})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All vehicle records deleted.",
		"deleted": deleted,
	})
}
