package www

import (
	"encoding/json"
	"net/http"

	"servicetrack/tracking"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeFailure writes the standard failure envelope. The reason is the
// machine-distinguishable code; message is for humans.
func writeFailure(w http.ResponseWriter, status int, reason, msg string) {
	body := map[string]interface{}{
		"success": false,
		"message": msg,
	}
	if reason != "" {
		body["reason"] = reason
	}
	writeJSON(w, status, body)
}

// rejectionStatus maps a rejection reason to its HTTP status.
func rejectionStatus(re *tracking.RejectionError) int {
	switch re.Reason {
	case tracking.ReasonConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
