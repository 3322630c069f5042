package api

import (
	"net/http"
	"time"
)

// HealthzHandler handles GET /healthz. It reports process liveness and
// uptime; it is independent of the submission pipeline and never touches
// the mail transport.
func HealthzHandler(start time.Time, environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"uptime":      time.Since(start).Round(time.Second).String(),
			"environment": environment,
		})
	}
}
