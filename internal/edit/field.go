package edit

import (
	"armbuilder/internal/model"
	"armbuilder/internal/schema"
)

// Field holds the draft text of one parameter of one task. The draft only
// diverges from the committed value while the user is typing.
type Field struct {
	TaskID model.TaskID
	Key    string

	spec   schema.ParamSpec
	draft  string
	synced float64
}

func NewField(id model.TaskID, key string, spec schema.ParamSpec, value float64) *Field {
	return &Field{
		TaskID: id,
		Key:    key,
		spec:   spec,
		draft:  DisplayValue(spec, value),
		synced: value,
	}
}

func (f *Field) Draft() string { return f.draft }

func (f *Field) Spec() schema.ParamSpec { return f.spec }

// Input replaces the draft when text is a number in progress. Anything else
// is refused and the draft is kept.
func (f *Field) Input(text string) bool {
	if !AcceptsDraft(text) {
		return false
	}
	f.draft = text
	return true
}

// Sync follows a committed value that changed outside this field, such as a
// reset. It reports whether the draft was overwritten.
func (f *Field) Sync(value float64) bool {
	if value == f.synced {
		return false
	}
	f.synced = value
	f.draft = DisplayValue(f.spec, value)
	return true
}

// Resolve is the value the current draft would commit.
func (f *Field) Resolve() (float64, bool) {
	return Resolve(f.spec, f.draft)
}

func (f *Field) markCommitted(value float64) {
	f.synced = value
	f.draft = DisplayValue(f.spec, value)
}
