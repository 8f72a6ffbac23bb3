package api

import (
	"net/http"
	"strconv"
)

// RegisterRoutes mounts every route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("GET /api/properties", h.handleProperties)
	mux.HandleFunc("POST /api/send-email", h.handleSendEmail)
	mux.HandleFunc("POST /api/calculate-affordability", h.handleCalculateAffordability)
	mux.HandleFunc("POST /api/realtime-token", h.handleRealtimeToken)
	mux.HandleFunc("POST /api/voice/tool-calls", h.handleToolCall)
}

// queryFloat parses a float query parameter, 0 when absent or malformed.
func queryFloat(r *http.Request, key string) float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// queryInt parses an int query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
