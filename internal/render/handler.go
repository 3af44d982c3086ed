package render

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"armbuilder/internal/edit"
	"armbuilder/internal/model"
)

type PageData struct {
	Title  string
	Tasks  []model.Task
	Fields map[model.TaskID][]edit.FieldView
}

// TaskLister is the read side of the task repo the page needs.
type TaskLister interface {
	List(ctx context.Context) ([]model.Task, error)
}

type Handler struct {
	tasks  TaskLister
	drafts *edit.Store
	title  string
	logger *slog.Logger
}

func NewHandler(tasks TaskLister, drafts *edit.Store, title string) *Handler {
	if title == "" {
		title = "Robotic Arm Task Builder"
	}
	return &Handler{tasks: tasks, drafts: drafts, title: title, logger: slog.Default()}
}

func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// GET /
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// a full render starts from the live list
	if _, err := h.drafts.Prune(ctx); err != nil {
		h.logger.WarnContext(ctx, "prune drafts", "err", err)
	}

	tasks, err := h.tasks.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tasks", "err", err)
		http.Error(w, "task list unavailable", http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:  h.title,
		Tasks:  tasks,
		Fields: make(map[model.TaskID][]edit.FieldView, len(tasks)),
	}
	for _, t := range tasks {
		fields, ok, err := h.drafts.Drafts(ctx, t.ID)
		if err != nil {
			h.logger.ErrorContext(ctx, "load drafts", "id", t.ID, "err", err)
			http.Error(w, "task list unavailable", http.StatusInternalServerError)
			return
		}
		if ok {
			data.Fields[t.ID] = fields
		}
	}

	templ.Handler(Page(data)).ServeHTTP(w, r)
}
