package task

import (
	"github.com/google/uuid"

	"armbuilder/internal/model"
	"armbuilder/internal/schema"
)

func newID() model.TaskID {
	return model.TaskID(uuid.NewString())
}

// NewTask builds a complete task of kind: fresh id, default parameters and
// the matching description.
func NewTask(kind model.Kind) model.Task {
	params := schema.DefaultParams(kind)
	return model.Task{
		ID:          newID(),
		Type:        kind,
		Parameters:  params,
		Description: schema.Describe(kind, params),
	}
}

// WithParameter returns t with one parameter replaced in a new map and the
// description regenerated. t itself is not modified.
func WithParameter(t model.Task, key string, v float64) model.Task {
	t.Parameters = t.Parameters.With(key, v)
	t.Description = schema.Describe(t.Type, t.Parameters)
	return t
}

// WithParameters swaps the whole parameter set.
func WithParameters(t model.Task, p model.Params) model.Task {
	t.Parameters = p.Clone()
	t.Description = schema.Describe(t.Type, t.Parameters)
	return t
}

// LatestMove returns the parameters of the last move in execution order.
func LatestMove(tasks []model.Task) (model.Params, bool) {
	for i := len(tasks) - 1; i >= 0; i-- {
		if tasks[i].Type == model.KindMove {
			return tasks[i].Parameters.Clone(), true
		}
	}
	return nil, false
}
