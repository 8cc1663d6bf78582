package handlers

import (
	"net/http"
	"time"

	"github.com/username/opodatkuvayco/backend/src/utils"
)

var startedAt = time.Now()

// HandleHealth answers GET /api/health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	}, http.StatusOK)
}
