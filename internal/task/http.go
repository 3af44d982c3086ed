package task

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"armbuilder/internal/model"
	"armbuilder/internal/telemetry"
)

type Handler struct {
	repo     Repo
	recorder telemetry.Recorder
	logger   *slog.Logger
	onRemove func(model.TaskID)
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo, logger: slog.Default()}
}

func (h *Handler) SetRecorder(rec telemetry.Recorder) {
	h.recorder = rec
}

func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// OnRemove registers fn to run after a task has been deleted.
func (h *Handler) OnRemove(fn func(model.TaskID)) {
	h.onRemove = fn
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		ts, err := h.repo.List(ctx)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ts)
		return

	case http.MethodPost:
		var in struct {
			Type model.Kind `json:"type"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		in.Type = model.Kind(strings.ToLower(strings.TrimSpace(string(in.Type))))

		t, err := h.repo.Append(ctx, in.Type)
		if errors.Is(err, ErrUnknownKind) {
			writeErr(w, http.StatusBadRequest, "unknown task type: "+string(in.Type))
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}

		telemetry.Record(h.recorder, telemetry.EventTaskAppended, telemetry.EventMetadata{
			"id":   string(t.ID),
			"type": string(t.Type),
		})
		h.logger.DebugContext(ctx, "task appended", "id", t.ID, "type", t.Type)
		writeJSON(w, http.StatusCreated, t)
		return

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
}

// /api/tasks/{id}
// /api/tasks/{id}/reset
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	if len(parts) == 1 && parts[0] == "reorder" {
		h.reorder(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			t, ok, err := h.repo.Get(ctx, id)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !ok {
				writeErr(w, http.StatusNotFound, "not found")
				return
			}
			writeJSON(w, http.StatusOK, t)
			return

		case http.MethodDelete:
			removed, err := h.repo.Remove(ctx, id)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err.Error())
				return
			}
			if removed {
				telemetry.Record(h.recorder, telemetry.EventTaskRemoved, telemetry.EventMetadata{"id": string(id)})
				if h.onRemove != nil {
					h.onRemove(id)
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"ok":      true,
				"removed": removed,
			})
			return

		default:
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	}

	if len(parts) == 2 && parts[1] == "reset" {
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		t, ok, err := h.repo.Reset(ctx, id)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		telemetry.Record(h.recorder, telemetry.EventTaskReset, telemetry.EventMetadata{
			"id":   string(t.ID),
			"type": string(t.Type),
		})
		writeJSON(w, http.StatusOK, t)
		return
	}

	writeErr(w, http.StatusNotFound, "not found")
}

// /api/tasks/reorder
//
// {"sourceId": "...", "targetId": "..."} drops source onto target.
// {"sourceId": "...", "position": n} moves source to index n.
func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var in struct {
		SourceID model.TaskID `json:"sourceId"`
		TargetID model.TaskID `json:"targetId"`
		Position *int         `json:"position"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	in.SourceID = model.TaskID(strings.TrimSpace(string(in.SourceID)))
	in.TargetID = model.TaskID(strings.TrimSpace(string(in.TargetID)))

	var (
		moved bool
		err   error
	)
	if in.Position != nil {
		moved, err = h.repo.Move(ctx, in.SourceID, *in.Position)
	} else {
		moved, err = h.repo.Reorder(ctx, in.SourceID, in.TargetID)
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if moved {
		telemetry.Record(h.recorder, telemetry.EventTaskReordered, telemetry.EventMetadata{
			"source": string(in.SourceID),
			"target": string(in.TargetID),
		})
	}

	ts, err := h.repo.List(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"moved": moved,
		"tasks": ts,
	})
}
