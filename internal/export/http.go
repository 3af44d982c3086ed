package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"armbuilder/internal/task"
	"armbuilder/internal/telemetry"
)

const maxImportBytes = 1 << 20

type Handler struct {
	repo       task.Repo
	recorder   telemetry.Recorder
	logger     *slog.Logger
	filePrefix string
	now        func() time.Time
	onReplace  func(context.Context)
}

func NewHandler(repo task.Repo, filePrefix string) *Handler {
	return &Handler{
		repo:       repo,
		logger:     slog.Default(),
		filePrefix: filePrefix,
		now:        time.Now,
	}
}

func (h *Handler) SetRecorder(rec telemetry.Recorder) {
	h.recorder = rec
}

func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// OnReplace registers fn to run after an import has replaced the list.
func (h *Handler) OnReplace(fn func(context.Context)) {
	h.onReplace = fn
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GET /api/export
// GET /api/export?download=1
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tasks, err := h.repo.List(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := h.now()
	body, err := Marshal(Build(tasks, now))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	download := r.URL.Query().Get("download") == "1"
	telemetry.Record(h.recorder, telemetry.EventListExported, telemetry.EventMetadata{
		"taskCount": len(tasks),
		"download":  download,
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if download {
		w.Header().Set("Content-Disposition", `attachment; filename="`+FileName(h.filePrefix, now)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// POST /api/import replaces the whole list with an exported document.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeErr(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	doc, err := Parse(data)
	if errors.Is(err, ErrInvalidDocument) {
		h.logger.InfoContext(ctx, "import rejected", "err", err)
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.repo.Replace(ctx, doc.Tasks); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if h.onReplace != nil {
		h.onReplace(ctx)
	}

	telemetry.Record(h.recorder, telemetry.EventListImported, telemetry.EventMetadata{
		"taskCount": doc.TaskCount,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"taskCount": doc.TaskCount,
		"tasks":     doc.Tasks,
	})
}
