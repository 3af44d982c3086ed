package task

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"armbuilder/internal/model"
	"armbuilder/internal/telemetry"
)

func newTaskHandlerForTests(t *testing.T) (*Handler, *MemoryRepo, *telemetry.MemoryLog) {
	t.Helper()

	repo := NewMemoryRepo()
	events := telemetry.NewMemoryLog(0)
	h := NewHandler(repo)
	h.SetRecorder(events)
	return h, repo, events
}

func jsonReq(method, path string, body any) *http.Request {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) model.Task {
	t.Helper()
	var out model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode task: %v body=%s", err, rec.Body.String())
	}
	return out
}

func TestTasksRoot_AppendAndList(t *testing.T) {
	h, _, _ := newTaskHandlerForTests(t)

	for _, kind := range []string{"move", " GRIP ", "wait"} {
		rec := httptest.NewRecorder()
		h.TasksRoot(rec, jsonReq(http.MethodPost, "/api/tasks", map[string]any{"type": kind}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 for %q, got %d body=%s", kind, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(list))
	}
	if list[1].Type != model.KindGrip || list[1].Description != "Grip with 50% force" {
		t.Fatalf("unexpected second task: %+v", list[1])
	}
}

func TestTasksRoot_RejectsUnknownType(t *testing.T) {
	h, _, _ := newTaskHandlerForTests(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"unknown type", map[string]any{"type": "teleport"}, http.StatusBadRequest},
		{"missing type", map[string]any{}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.TasksRoot(rec, jsonReq(http.MethodPost, "/api/tasks", tc.body))
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d body=%s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}
}

func TestTasksSub_GetDeleteReset(t *testing.T) {
	h, repo, events := newTaskHandlerForTests(t)
	ctx := t.Context()

	created, err := repo.Append(ctx, model.KindWait)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, _, err := repo.UpdateParameter(ctx, created.ID, "duration", 12); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec := httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodPost, "/api/tasks/"+string(created.ID)+"/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decodeTask(t, rec); got.Description != "Wait for 1.0 sec" {
		t.Fatalf("expected reset description, got %q", got.Description)
	}

	rec = httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/"+string(created.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+string(created.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/"+string(created.ID), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete expected 404, got %d", rec.Code)
	}

	// stale delete is a no-op, not an error
	rec = httptest.NewRecorder()
	h.TasksSub(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+string(created.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stale delete expected 200, got %d", rec.Code)
	}
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["removed"] != false {
		t.Fatalf("expected removed=false, got %v", out["removed"])
	}

	removedEvents, _ := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventTaskRemoved})
	if len(removedEvents) != 1 {
		t.Fatalf("expected exactly one removal event, got %d", len(removedEvents))
	}
}

func TestTasksSub_DeleteRunsRemoveHook(t *testing.T) {
	h, repo, _ := newTaskHandlerForTests(t)
	created, err := repo.Append(t.Context(), model.KindGrip)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var removed []model.TaskID
	h.OnRemove(func(id model.TaskID) { removed = append(removed, id) })

	for range 2 {
		rec := httptest.NewRecorder()
		h.TasksSub(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+string(created.ID), nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("delete expected 200, got %d", rec.Code)
		}
	}

	// the second delete was a no-op and must not fire the hook
	if len(removed) != 1 || removed[0] != created.ID {
		t.Fatalf("expected hook once for %s, got %v", created.ID, removed)
	}
}
