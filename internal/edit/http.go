package edit

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"armbuilder/internal/model"
	"armbuilder/internal/telemetry"
)

type Handler struct {
	store    *Store
	recorder telemetry.Recorder
	logger   *slog.Logger
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store, logger: slog.Default()}
}

func (h *Handler) SetRecorder(rec telemetry.Recorder) {
	h.recorder = rec
}

func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/drafts/{id}
// /api/drafts/{id}/{key}
// /api/drafts/{id}/{key}/commit
func (h *Handler) DraftsSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/drafts/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.list(w, r, id)
	case len(parts) == 2:
		if r.Method != http.MethodPut {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.input(w, r, id, parts[1])
	case len(parts) == 3 && parts[2] == "commit":
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.commit(w, r, id, parts[1])
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	fields, ok, err := h.store.Drafts(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"taskId": id,
		"fields": fields,
	})
}

type draftBody struct {
	Text *string `json:"text"`
}

// readDraftBody decodes an optional {"text": "..."} body.
func readDraftBody(r *http.Request) (draftBody, error) {
	var in draftBody
	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		return draftBody{}, nil
	}
	return in, err
}

func (h *Handler) input(w http.ResponseWriter, r *http.Request, id model.TaskID, key string) {
	in, err := readDraftBody(r)
	if err != nil || in.Text == nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	res, ok, err := h.store.Input(r.Context(), id, key, *in.Text)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// commit optionally takes the final text so a confirm key press can send
// input and commit in one request.
func (h *Handler) commit(w http.ResponseWriter, r *http.Request, id model.TaskID, key string) {
	ctx := r.Context()

	in, err := readDraftBody(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.Text != nil {
		_, ok, err := h.store.Input(ctx, id, key, *in.Text)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
	}

	res, ok, err := h.store.Commit(ctx, id, key)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	if res.Committed {
		telemetry.Record(h.recorder, telemetry.EventParamCommitted, telemetry.EventMetadata{
			"id":    string(id),
			"type":  string(res.Task.Type),
			"key":   key,
			"value": res.Task.Parameters.Get(key),
		})
	} else {
		telemetry.Record(h.recorder, telemetry.EventDraftDiscarded, telemetry.EventMetadata{
			"id":    string(id),
			"type":  string(res.Task.Type),
			"key":   key,
			"draft": res.Draft,
		})
		h.logger.DebugContext(ctx, "draft discarded", "id", id, "key", key, "draft", res.Draft)
	}
	writeJSON(w, http.StatusOK, res)
}
