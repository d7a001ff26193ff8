package handlers

import (
	"encoding/json"
	"fleet-route-service/internal/platform/obs"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

// writeError echoes the request id so clients can quote it when reporting.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	body := map[string]string{"error": msg}
	if id, _ := r.Context().Value(obs.RequestIDKey).(string); id != "" {
		body["request_id"] = id
	}
	writeJSON(w, r, status, body)
}
