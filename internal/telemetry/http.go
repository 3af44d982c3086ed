package telemetry

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type Handler struct {
	log ActivityLog
}

func NewHandler(log ActivityLog) *Handler {
	return &Handler{log: log}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/activity?since=<RFC3339>&type=<event type>
//
// Responds with the matching events and a summary of them.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var since time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}

	var types []EventType
	for _, raw := range r.URL.Query()["type"] {
		if raw = strings.TrimSpace(raw); raw != "" {
			types = append(types, EventType(raw))
		}
	}

	events, err := h.log.GetEvents(since, types)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := CalculateStats(events, since)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":  stats,
		"events": events,
	})
}
