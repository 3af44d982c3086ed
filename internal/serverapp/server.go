package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"armbuilder/internal/config"
	"armbuilder/internal/edit"
	"armbuilder/internal/export"
	"armbuilder/internal/httpmw"
	"armbuilder/internal/render"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
	"armbuilder/internal/telemetry"
	staticfiles "armbuilder/static"
)

const activityLimit = 1000

type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Repo defaults to an empty in-memory list.
	Repo task.Repo
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config
	logger := opts.Logger

	registry := schema.NewRegistry(cfg.MoveUnit())

	repo := opts.Repo
	if repo == nil {
		repo = task.NewMemoryRepo()
	}
	if cfg.Editor.SeedDemo {
		if err := task.SeedDemo(context.Background(), repo); err != nil {
			return nil, err
		}
		logger.Info("seeded demo program")
	}

	events := telemetry.NewMemoryLog(activityLimit)

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if cfg.Server.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(cfg.Server.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	routes := newRouteRegistry(mux)

	routes.handle("/healthz", "GET", "Liveness check", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "armbuilder",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	routes.handle("/api/schema", "GET", "Parameter schema of every task type", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, registry.Catalog())
	})

	drafts := edit.NewStore(repo, registry)

	taskHandler := task.NewHandler(repo)
	taskHandler.SetRecorder(events)
	taskHandler.SetLogger(logger)
	taskHandler.OnRemove(drafts.Forget)
	routes.handle("/api/tasks", "GET, POST", "List tasks or append one with default parameters",
		`{"type":"move"}`, taskHandler.TasksRoot)
	routes.handle("/api/tasks/", "GET, DELETE, POST",
		"Task by id, DELETE to remove, POST {id}/reset to restore defaults, POST reorder to move",
		`{"sourceId":"<id>","targetId":"<id>"}`, taskHandler.TasksSub)

	draftHandler := edit.NewHandler(drafts)
	draftHandler.SetRecorder(events)
	draftHandler.SetLogger(logger)
	routes.handle("/api/drafts/", "GET, PUT, POST",
		"Field drafts: GET {id}, PUT {id}/{key} with in-progress text, POST {id}/{key}/commit",
		`{"text":"150"}`, draftHandler.DraftsSub)

	exportHandler := export.NewHandler(repo, cfg.Export.FilenamePrefix)
	exportHandler.SetRecorder(events)
	exportHandler.SetLogger(logger)
	exportHandler.OnReplace(func(ctx context.Context) {
		if n, err := drafts.Prune(ctx); err != nil {
			logger.WarnContext(ctx, "prune drafts failed", "err", err)
		} else if n > 0 {
			logger.DebugContext(ctx, "pruned drafts", "fields", n)
		}
	})
	routes.handle("/api/export", "GET", "Export document, ?download=1 as attachment", "", exportHandler.Export)
	routes.handle("/api/import", "POST", "Replace the list with an exported document", "", exportHandler.Import)

	activityHandler := telemetry.NewHandler(events)
	routes.handle("/api/activity", "GET", "Editor activity events and summary, ?since=RFC3339&type=...", "", activityHandler.Activity)

	routes.handle("/api/config", "GET", "Effective configuration", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	routes.handle("/api/routes", "GET", "This index", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, routes.list())
	})

	pageHandler := render.NewHandler(repo, drafts, cfg.Editor.Title)
	pageHandler.SetLogger(logger)
	routes.handle("/", "GET", "Builder page", "", pageHandler.Page)

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(logger),
		httpmw.WithRecover(logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
