package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"armbuilder/internal/model"
	"armbuilder/internal/schema"
	"armbuilder/internal/task"
)

const (
	Version = "1.0"

	DefaultFilePrefix = "robotic-arm-tasks"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

var ErrInvalidDocument = errors.New("invalid task document")

// Document is the exported snapshot of a task list.
type Document struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	TaskCount int          `json:"taskCount"`
	Tasks     []model.Task `json:"tasks"`
}

func Build(tasks []model.Task, now time.Time) Document {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return Document{
		Version:   Version,
		Timestamp: now.UTC().Format(timestampLayout),
		TaskCount: len(out),
		Tasks:     out,
	}
}

// Marshal renders doc as two-space indented JSON without a trailing newline.
func Marshal(doc Document) ([]byte, error) {
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FileName is the download name for an export taken at now.
func FileName(prefix string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + ".json"
}

//go:embed document.cue
var documentSchemaSrc string

// validator owns a single cue context; contexts are not safe for
// concurrent use.
type validator struct {
	mu  sync.Mutex
	ctx *cue.Context
	doc cue.Value
}

func (v *validator) validate(data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	value := v.ctx.CompileBytes(data, cue.Filename("tasks.json"))
	if err := value.Err(); err != nil {
		return err
	}
	return v.doc.Unify(value).Validate(cue.Concrete(true))
}

var loadValidator = sync.OnceValues(func() (*validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(documentSchemaSrc, cue.Filename("document.cue"))
	if err := root.Err(); err != nil {
		return nil, err
	}
	doc := root.LookupPath(cue.ParsePath("#Document"))
	if err := doc.Err(); err != nil {
		return nil, err
	}
	return &validator{ctx: ctx, doc: doc}, nil
})

// Parse validates an exported document and returns it with every task
// description regenerated from its parameters.
func Parse(data []byte) (Document, error) {
	v, err := loadValidator()
	if err != nil {
		return Document{}, fmt.Errorf("load document schema: %w", err)
	}

	if err := v.validate(data); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.TaskCount != len(doc.Tasks) {
		return Document{}, fmt.Errorf("%w: taskCount %d does not match %d tasks", ErrInvalidDocument, doc.TaskCount, len(doc.Tasks))
	}

	reg := schema.Default()
	seen := make(map[model.TaskID]bool, len(doc.Tasks))
	for i, t := range doc.Tasks {
		if seen[t.ID] {
			return Document{}, fmt.Errorf("%w: duplicate task id %q", ErrInvalidDocument, t.ID)
		}
		seen[t.ID] = true

		for key := range t.Parameters {
			if !reg.HasKey(t.Type, key) {
				return Document{}, fmt.Errorf("%w: task %q: %q is not a %s parameter", ErrInvalidDocument, t.ID, key, t.Type)
			}
		}
		doc.Tasks[i] = task.WithParameters(t, t.Parameters)
	}
	return doc, nil
}
