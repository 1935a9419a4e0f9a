package handler

import (
	"net/http"
	"time"
)

// HandleHealth is the liveness endpoint.
//
// HTTP: GET /api/health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
