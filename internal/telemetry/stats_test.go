package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_NilRecorder(t *testing.T) {
	assert.NotPanics(t, func() {
		Record(nil, EventTaskAppended, EventMetadata{"type": "grip"})
	})
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryLog(0)
	Record(repo, EventTaskAppended, EventMetadata{"type": "move"})
	Record(repo, EventTaskAppended, EventMetadata{"type": "move"})
	Record(repo, EventTaskAppended, EventMetadata{"type": "grip"})
	Record(repo, EventParamCommitted, EventMetadata{"type": "grip", "key": "force"})
	Record(repo, EventDraftDiscarded, EventMetadata{"type": "grip", "key": "force"})
	Record(repo, EventListExported, EventMetadata{"count": 3})

	events, _ := repo.GetEvents(time.Time{}, nil)
	stats, err := CalculateStats(events, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TasksAppended)
	assert.Equal(t, 2, stats.AppendsByKind["move"])
	assert.Equal(t, 1, stats.Commits)
	assert.Equal(t, 1, stats.CommitsByParam["grip.force"])
	assert.Equal(t, 1, stats.DiscardedDrafts)
	assert.Equal(t, 1, stats.Exports)
	assert.Equal(t, 3, stats.EventCounts[EventTaskAppended])
}

func TestHandler_Activity(t *testing.T) {
	repo := NewMemoryLog(0)
	Record(repo, EventTaskRemoved, nil)
	h := NewHandler(repo)

	rec := httptest.NewRecorder()
	h.Activity(rec, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tasks_removed":1`)

	rec = httptest.NewRecorder()
	h.Activity(rec, httptest.NewRequest(http.MethodGet, "/api/activity?since=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Activity(rec, httptest.NewRequest(http.MethodPost, "/api/activity", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_ActivityTypeFilter(t *testing.T) {
	repo := NewMemoryLog(0)
	Record(repo, EventTaskAppended, EventMetadata{"type": "grip"})
	Record(repo, EventParamCommitted, EventMetadata{"type": "grip", "key": "force"})
	h := NewHandler(repo)

	rec := httptest.NewRecorder()
	h.Activity(rec, httptest.NewRequest(http.MethodGet, "/api/activity?type=param_committed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Stats  Stats   `json:"stats"`
		Events []Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Events, 1)
	assert.Equal(t, EventParamCommitted, out.Events[0].Type)
	assert.Equal(t, 1, out.Stats.CommitsByParam["grip.force"])
}
