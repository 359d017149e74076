package www

import (
	"log"
	"net/http"

	"servicetrack/tracking"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) apiStagePerformance(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("stage performance: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"avgStageTimes": tracking.StagePerformance(vehicles),
	})
}

func (h *Handlers) apiVehicleTimeline(w http.ResponseWriter, r *http.Request) {
	number := tracking.NormalizeNumber(chi.URLParam(r, "vehicleNumber"))
	vehicle, err := h.engine.DB().GetLatestVehicleByNumber(number)
	if err != nil {
		log.Printf("vehicle timeline %s: %v", number, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if vehicle == nil {
		writeFailure(w, http.StatusNotFound, "", "Vehicle not found.")
		return
	}

	timeline, current := tracking.Reconstruct(vehicle.Stages)
	resp := map[string]interface{}{
		"success":       true,
		"vehicleNumber": vehicle.VehicleNumber,
		"stageTimeline": timeline,
	}
	if current != "" {
		resp["currentStage"] = current
	} else {
		resp["currentStage"] = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) apiVehicleCountPerStage(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("vehicle count per stage: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"vehicleCountPerStage": tracking.VehicleCountPerStage(vehicles),
	})
}

func (h *Handlers) apiAllVehicleTimelines(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("all vehicle timelines: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"vehicles": tracking.AllVehicleTimelines(vehicles),
	})
}

func (h *Handlers) apiPendingVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.engine.DB().ListVehicles()
	if err != nil {
		log.Printf("pending vehicles: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"pendingVehicles": tracking.PendingVehicles(vehicles),
	})
}
