package task

import (
	"context"
	"slices"
	"sync"

	"armbuilder/internal/model"
	"armbuilder/internal/schema"
)

// MemoryRepo keeps the task list in process memory. Slice order is the
// execution order.
type MemoryRepo struct {
	mu    sync.RWMutex
	tasks []model.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks: make([]model.Task, 0),
	}
}

func (r *MemoryRepo) indexLocked(id model.TaskID) int {
	return slices.IndexFunc(r.tasks, func(t model.Task) bool { return t.ID == id })
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.Task, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	return r.tasks[i].Clone(), true, nil
}

func (r *MemoryRepo) Append(ctx context.Context, kind model.Kind) (model.Task, error) {
	_ = ctx
	if !kind.Valid() {
		return model.Task{}, ErrUnknownKind
	}

	t := NewTask(kind)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, t)
	return t.Clone(), nil
}

func (r *MemoryRepo) Remove(ctx context.Context, id model.TaskID) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	r.tasks = slices.Delete(r.tasks, i, i+1)
	return true, nil
}

// Reorder handles a drop of sourceID onto targetID: the source takes the
// target's index and everything in between shifts by one. An unresolved
// source or target leaves the list unchanged.
func (r *MemoryRepo) Reorder(ctx context.Context, sourceID, targetID model.TaskID) (bool, error) {
	_ = ctx
	if sourceID == "" || targetID == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sourceIdx := r.indexLocked(sourceID)
	targetIdx := r.indexLocked(targetID)
	if sourceIdx < 0 || targetIdx < 0 {
		return false, nil
	}
	r.moveLocked(sourceIdx, targetIdx)
	return true, nil
}

// Move places id at position, clamped to the list bounds.
func (r *MemoryRepo) Move(ctx context.Context, id model.TaskID, position int) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.indexLocked(id)
	if from < 0 {
		return false, nil
	}
	position = max(0, min(position, len(r.tasks)-1))
	r.moveLocked(from, position)
	return true, nil
}

func (r *MemoryRepo) moveLocked(from, to int) {
	if from == to {
		return
	}
	t := r.tasks[from]
	r.tasks = slices.Delete(r.tasks, from, from+1)
	r.tasks = slices.Insert(r.tasks, to, t)
}

// UpdateParameter writes one parameter and regenerates the description. It
// is a no-op for unknown ids and for keys outside the task kind's schema.
func (r *MemoryRepo) UpdateParameter(ctx context.Context, id model.TaskID, key string, value float64) (model.Task, bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	if !schema.Default().HasKey(r.tasks[i].Type, key) {
		return r.tasks[i].Clone(), false, nil
	}
	r.tasks[i] = WithParameter(r.tasks[i], key, value)
	return r.tasks[i].Clone(), true, nil
}

// Reset restores the default parameters of a task, keeping its id and place.
func (r *MemoryRepo) Reset(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	r.tasks[i] = WithParameters(r.tasks[i], schema.DefaultParams(r.tasks[i].Type))
	return r.tasks[i].Clone(), true, nil
}

// Replace swaps the whole list, regenerating every description.
func (r *MemoryRepo) Replace(ctx context.Context, tasks []model.Task) error {
	_ = ctx

	next := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Type.Valid() {
			return ErrUnknownKind
		}
		next = append(next, WithParameters(t, t.Parameters))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = next
	return nil
}
