package task

import (
	"context"
	"errors"

	"armbuilder/internal/model"
)

var ErrUnknownKind = errors.New("unknown task kind")

// Repo is the ordered task list. Lookups by an id that no longer exists are
// reported through the bool result and never as errors.
type Repo interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id model.TaskID) (model.Task, bool, error)
	Append(ctx context.Context, kind model.Kind) (model.Task, error)
	Remove(ctx context.Context, id model.TaskID) (bool, error)
	Reorder(ctx context.Context, sourceID, targetID model.TaskID) (bool, error)
	Move(ctx context.Context, id model.TaskID, position int) (bool, error)
	UpdateParameter(ctx context.Context, id model.TaskID, key string, value float64) (model.Task, bool, error)
	Reset(ctx context.Context, id model.TaskID) (model.Task, bool, error)
	Replace(ctx context.Context, tasks []model.Task) error
}
