package edit

import (
	"context"
	"sync"

	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
)

type fieldKey struct {
	id  model.TaskID
	key string
}

// FieldView is one editable parameter as the editor shows it.
type FieldView struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Unit  string   `json:"unit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Step  *float64 `json:"step,omitempty"`
	Value float64  `json:"value"`
	Draft string   `json:"draft"`
}

type InputResult struct {
	Accepted bool   `json:"accepted"`
	Draft    string `json:"draft"`
}

type CommitResult struct {
	Committed bool       `json:"committed"`
	Draft     string     `json:"draft"`
	Task      model.Task `json:"task"`
}

// Store keeps the drafts of every field being edited and commits them
// through the task repo.
type Store struct {
	mu       sync.Mutex
	repo     task.Repo
	registry *schema.Registry
	fields   map[fieldKey]*Field
}

func NewStore(repo task.Repo, registry *schema.Registry) *Store {
	if registry == nil {
		registry = schema.Default()
	}
	return &Store{
		repo:     repo,
		registry: registry,
		fields:   make(map[fieldKey]*Field),
	}
}

func (s *Store) Registry() *schema.Registry {
	return s.registry
}

// fieldLocked returns the field for (t, key), resynced to the task's current
// value. ok is false when key is not a parameter of t.
func (s *Store) fieldLocked(t model.Task, key string) (*Field, bool) {
	spec, ok := s.registry.Spec(t.Type, key)
	if !ok {
		return nil, false
	}
	fk := fieldKey{id: t.ID, key: key}
	value := t.Parameters.Get(key)

	f, ok := s.fields[fk]
	if !ok {
		f = NewField(t.ID, key, spec, value)
		s.fields[fk] = f
		return f, true
	}
	f.Sync(value)
	return f, true
}

func (s *Store) forgetLocked(id model.TaskID) {
	for fk := range s.fields {
		if fk.id == id {
			delete(s.fields, fk)
		}
	}
}

// lookupLocked fetches the task, dropping stale drafts when it is gone.
func (s *Store) lookupLocked(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	t, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, false, err
	}
	if !ok {
		s.forgetLocked(id)
		return model.Task{}, false, nil
	}
	return t, true, nil
}

// Forget drops every draft held for id. It is called when a task is removed.
func (s *Store) Forget(id model.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked(id)
}

// Prune drops drafts of tasks that are no longer in the list and returns how
// many fields went.
func (s *Store) Prune(ctx context.Context) (int, error) {
	ts, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	live := make(map[model.TaskID]struct{}, len(ts))
	for _, t := range ts {
		live[t.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for fk := range s.fields {
		if _, ok := live[fk.id]; !ok {
			delete(s.fields, fk)
			n++
		}
	}
	return n, nil
}

// Drafts lists the fields of a task in schema order.
func (s *Store) Drafts(ctx context.Context, id model.TaskID) ([]FieldView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok, err := s.lookupLocked(ctx, id)
	if err != nil || !ok {
		return nil, false, err
	}

	keys := s.registry.Keys(t.Type)
	out := make([]FieldView, 0, len(keys))
	for _, key := range keys {
		f, ok := s.fieldLocked(t, key)
		if !ok {
			continue
		}
		spec := f.Spec()
		out = append(out, FieldView{
			Key:   key,
			Label: spec.Label,
			Unit:  spec.Unit,
			Min:   spec.Min,
			Max:   spec.Max,
			Step:  spec.Step,
			Value: spec.Display(t.Parameters.Get(key)),
			Draft: f.Draft(),
		})
	}
	return out, true, nil
}

// Input records in-progress text for one field. ok is false for an unknown
// task or key.
func (s *Store) Input(ctx context.Context, id model.TaskID, key, text string) (InputResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok, err := s.lookupLocked(ctx, id)
	if err != nil || !ok {
		return InputResult{}, false, err
	}
	f, ok := s.fieldLocked(t, key)
	if !ok {
		return InputResult{}, false, nil
	}

	accepted := f.Input(text)
	return InputResult{Accepted: accepted, Draft: f.Draft()}, true, nil
}

// Commit applies the field's draft to the task. A draft that is not a number
// is discarded: the task is unchanged and the draft stays as typed.
func (s *Store) Commit(ctx context.Context, id model.TaskID, key string) (CommitResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok, err := s.lookupLocked(ctx, id)
	if err != nil || !ok {
		return CommitResult{}, false, err
	}
	f, ok := s.fieldLocked(t, key)
	if !ok {
		return CommitResult{}, false, nil
	}

	v, ok := f.Resolve()
	if !ok {
		return CommitResult{Committed: false, Draft: f.Draft(), Task: t}, true, nil
	}

	updated, ok, err := s.repo.UpdateParameter(ctx, id, key, v)
	if err != nil {
		return CommitResult{}, false, err
	}
	if !ok {
		// removed between lookup and write
		s.forgetLocked(id)
		return CommitResult{}, false, nil
	}

	f.markCommitted(v)
	return CommitResult{Committed: true, Draft: f.Draft(), Task: updated}, true, nil
}
