package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"armbuilder/internal/edit"
	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
)

// TaskBody renders the kind specific part of a task block. An unknown kind
// fails the render.
func TaskBody(t model.Task, fields []edit.FieldView) templ.Component {
	switch t.Type {
	case model.KindMove:
		return moveBody(t, fields)
	case model.KindGrip:
		return gripBody(t, fields)
	case model.KindRelease:
		return releaseBody()
	case model.KindWait:
		return waitBody(t, fields)
	default:
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("render: unknown task kind %q", t.Type)
		})
	}
}

func kindTitle(k model.Kind) string {
	switch k {
	case model.KindMove:
		return "Move"
	case model.KindGrip:
		return "Grip"
	case model.KindRelease:
		return "Release"
	case model.KindWait:
		return "Wait"
	default:
		return string(k)
	}
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " (" + unit + ")"
}

func floatAttr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func armPosition(tasks []model.Task) string {
	p, ok := task.LatestMove(tasks)
	if !ok {
		return "Arm at home position"
	}
	return fmt.Sprintf("Arm at (%s m, %s m, %s m)",
		schema.ToFixed(p.Get("x"), 2),
		schema.ToFixed(p.Get("y"), 2),
		schema.ToFixed(p.Get("z"), 2),
	)
}
