package export

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armbuilder/internal/model"
	"armbuilder/internal/task"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 123_000_000, time.UTC)

func sampleTasks(t *testing.T) []model.Task {
	t.Helper()
	ctx := context.Background()
	repo := task.NewMemoryRepo()

	mv, err := repo.Append(ctx, model.KindMove)
	require.NoError(t, err)
	_, _, _ = repo.UpdateParameter(ctx, mv.ID, "x", 1)
	_, _, _ = repo.UpdateParameter(ctx, mv.ID, "y", 0.5)
	_, _, _ = repo.UpdateParameter(ctx, mv.ID, "z", 0.2)

	_, err = repo.Append(ctx, model.KindGrip)
	require.NoError(t, err)
	_, err = repo.Append(ctx, model.KindRelease)
	require.NoError(t, err)
	_, err = repo.Append(ctx, model.KindWait)
	require.NoError(t, err)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	return tasks
}

func TestBuild_CountsAndTimestamp(t *testing.T) {
	tasks := sampleTasks(t)
	doc := Build(tasks, fixedNow)

	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, "2024-03-05T14:07:09.123Z", doc.Timestamp)
	assert.Equal(t, len(tasks), doc.TaskCount)

	doc.Tasks[0].Parameters["x"] = 9
	assert.Equal(t, 1.0, tasks[0].Parameters["x"], "snapshot must not share parameter maps")
}

func TestBuild_TimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	doc := Build(nil, time.Date(2024, time.March, 5, 16, 0, 0, 0, loc))
	assert.Equal(t, "2024-03-05T14:00:00.000Z", doc.Timestamp)
}

func TestMarshal_Layout(t *testing.T) {
	body, err := Marshal(Build(nil, fixedNow))
	require.NoError(t, err)

	want := "{\n" +
		"  \"version\": \"1.0\",\n" +
		"  \"timestamp\": \"2024-03-05T14:07:09.123Z\",\n" +
		"  \"taskCount\": 0,\n" +
		"  \"tasks\": []\n" +
		"}"
	assert.Equal(t, want, string(body))
}

func TestMarshal_ReleaseHasEmptyParameters(t *testing.T) {
	rel := task.NewTask(model.KindRelease)
	body, err := Marshal(Build([]model.Task{rel}, fixedNow))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"parameters": {}`)
	assert.Contains(t, string(body), `"description": "Release gripper"`)
}

func TestRoundTrip(t *testing.T) {
	tasks := sampleTasks(t)

	body, err := Marshal(Build(tasks, fixedNow))
	require.NoError(t, err)

	doc, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, tasks, doc.Tasks)
	assert.Equal(t, "Move to Position (1.00 m, 0.50 m, 0.20 m)", doc.Tasks[0].Description)
}

func TestParse_RegeneratesDescriptions(t *testing.T) {
	in := `{"version":"1.0","timestamp":"x","taskCount":1,"tasks":[
		{"id":"a","type":"grip","parameters":{"force":75},"description":"stale"}]}`

	doc, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "Grip with 75% force", doc.Tasks[0].Description)
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{`},
		{"wrong version", `{"version":"2.0","timestamp":"x","taskCount":0,"tasks":[]}`},
		{"missing timestamp", `{"version":"1.0","taskCount":0,"tasks":[]}`},
		{"count mismatch", `{"version":"1.0","timestamp":"x","taskCount":2,"tasks":[
			{"id":"a","type":"release","parameters":{},"description":""}]}`},
		{"unknown type", `{"version":"1.0","timestamp":"x","taskCount":1,"tasks":[
			{"id":"a","type":"jump","parameters":{},"description":""}]}`},
		{"non numeric parameter", `{"version":"1.0","timestamp":"x","taskCount":1,"tasks":[
			{"id":"a","type":"grip","parameters":{"force":"high"},"description":""}]}`},
		{"foreign parameter", `{"version":"1.0","timestamp":"x","taskCount":1,"tasks":[
			{"id":"a","type":"grip","parameters":{"duration":3},"description":""}]}`},
		{"empty id", `{"version":"1.0","timestamp":"x","taskCount":1,"tasks":[
			{"id":"","type":"release","parameters":{},"description":""}]}`},
		{"duplicate id", `{"version":"1.0","timestamp":"x","taskCount":2,"tasks":[
			{"id":"a","type":"release","parameters":{},"description":""},
			{"id":"a","type":"release","parameters":{},"description":""}]}`},
		{"unexpected field", `{"version":"1.0","timestamp":"x","taskCount":0,"tasks":[],"owner":"me"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument), err.Error())
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "robotic-arm-tasks-1709647629123.json", FileName("", fixedNow))
	assert.Equal(t, "cell-7-1709647629123.json", FileName(" cell-7 ", fixedNow))
	assert.True(t, strings.HasSuffix(FileName("x", time.Now()), ".json"))
}

func TestDocument_JSONFieldNames(t *testing.T) {
	body, err := Marshal(Build(sampleTasks(t), fixedNow))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, k := range []string{"version", "timestamp", "taskCount", "tasks"} {
		assert.Contains(t, raw, k)
	}
}
