package model

type TaskID string

// Kind is the closed set of arm commands a task can carry.
type Kind string

const (
	KindMove    Kind = "move"
	KindGrip    Kind = "grip"
	KindRelease Kind = "release"
	KindWait    Kind = "wait"
)

// Kinds lists every task kind in palette order.
func Kinds() []Kind {
	return []Kind{KindMove, KindGrip, KindRelease, KindWait}
}

func (k Kind) Valid() bool {
	switch k {
	case KindMove, KindGrip, KindRelease, KindWait:
		return true
	default:
		return false
	}
}

// Params maps parameter name to its internal (stored) value.
type Params map[string]float64

// Clone returns an independent copy. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get reads a value, treating absent keys as 0.
func (p Params) Get(key string) float64 {
	return p[key]
}

// With returns a copy of p with key set to v; p is left untouched.
func (p Params) With(key string, v float64) Params {
	out := p.Clone()
	out[key] = v
	return out
}

type Task struct {
	ID          TaskID `json:"id"`
	Type        Kind   `json:"type"`
	Parameters  Params `json:"parameters"`
	Description string `json:"description"`
}

// Clone copies the task including its parameter map.
func (t Task) Clone() Task {
	t.Parameters = t.Parameters.Clone()
	return t
}
