package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

var started = time.Now()

// Health reports liveness and uptime.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(started).Round(time.Second).String(),
	})
}
