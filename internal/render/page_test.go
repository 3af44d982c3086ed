package render

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armbuilder/internal/edit"
	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestTaskBody_EveryKindRenders(t *testing.T) {
	for _, k := range model.Kinds() {
		tk := task.NewTask(k)
		out := renderString(t, TaskBody(tk, nil))
		assert.Contains(t, out, "params-"+string(k))
	}
}

func TestTaskBody_GripShowsForceMeter(t *testing.T) {
	grip := task.WithParameters(task.NewTask(model.KindGrip), model.Params{"force": 72.5})
	fields := []edit.FieldView{{Key: "force", Label: "Force", Unit: "%", Draft: "72.5"}}

	out := renderString(t, TaskBody(grip, fields))
	assert.Contains(t, out, `<meter class="force-bar" min="0" max="100" value="73">`)
	assert.Contains(t, out, `data-task="`+string(grip.ID)+`"`)
	assert.Equal(t, 1, strings.Count(out, "<input"))
}

func TestTaskBody_UnknownKindFails(t *testing.T) {
	var buf bytes.Buffer
	err := TaskBody(model.Task{ID: "x", Type: "jump"}, nil).Render(context.Background(), &buf)
	assert.Error(t, err)
}

func TestNumberField_EscapesAndCarriesBounds(t *testing.T) {
	lo, hi := 0.0, 100.0
	out := renderString(t, NumberField("t1", edit.FieldView{
		Key:   "force",
		Label: "Force",
		Unit:  "%",
		Min:   &lo,
		Max:   &hi,
		Draft: `"><script>`,
	}))

	assert.Contains(t, out, `data-key="force"`)
	assert.Contains(t, out, `data-max="100"`)
	assert.Contains(t, out, "Force (%)")
	assert.NotContains(t, out, "<script>")
}

func TestPreview_LatestMove(t *testing.T) {
	first := task.WithParameters(task.NewTask(model.KindMove), model.Params{"x": 1, "y": 0, "z": 0})
	last := task.WithParameters(task.NewTask(model.KindMove), model.Params{"x": 0.25, "y": -0.5, "z": 1})
	tasks := []model.Task{first, task.NewTask(model.KindGrip), last, task.NewTask(model.KindWait)}

	out := renderString(t, Preview(tasks))
	assert.Contains(t, out, "Arm at (0.25 m, -0.50 m, 1.00 m)")
	assert.Equal(t, 4, strings.Count(out, "<li>"))

	out = renderString(t, Preview(nil))
	assert.Contains(t, out, "Arm at home position")
	assert.Contains(t, out, "No steps yet.")
}

func TestHandler_PageListsTasksWithDrafts(t *testing.T) {
	ctx := context.Background()
	repo := task.NewMemoryRepo()
	store := edit.NewStore(repo, schema.Default())

	mv, err := repo.Append(ctx, model.KindMove)
	require.NoError(t, err)
	_, err = repo.Append(ctx, model.KindRelease)
	require.NoError(t, err)
	_, _, err = store.Input(ctx, mv.ID, "x", "12.")
	require.NoError(t, err)

	h := NewHandler(repo, store, "")
	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Robotic Arm Task Builder</title>")
	assert.Contains(t, body, `value="12."`)
	assert.Contains(t, body, "Release gripper")
	assert.Contains(t, body, `data-append="wait"`)

	assert.NotContains(t, body, "Add a task from the palette")

	rec = httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
