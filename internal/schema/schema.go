package schema

import (
	"fmt"
	"strings"

	"armbuilder/internal/model"
)

// ParamSpec describes one editable parameter. Bounds and Step are in
// display units; values are stored in internal units.
type ParamSpec struct {
	Label string
	Unit  string
	Min   *float64
	Max   *float64
	Step  *float64

	ToInternal func(float64) float64 // display -> stored
	ToUI       func(float64) float64 // stored -> display
}

// Internal converts a display value to its stored form.
func (s ParamSpec) Internal(ui float64) float64 {
	if s.ToInternal == nil {
		return ui
	}
	return s.ToInternal(ui)
}

// Display converts a stored value to its display form.
func (s ParamSpec) Display(v float64) float64 {
	if s.ToUI == nil {
		return v
	}
	return s.ToUI(v)
}

// Clamp pulls a display value back inside [Min, Max] where bounds exist.
func (s ParamSpec) Clamp(ui float64) float64 {
	if s.Min != nil && ui < *s.Min {
		ui = *s.Min
	}
	if s.Max != nil && ui > *s.Max {
		ui = *s.Max
	}
	return ui
}

func (s ParamSpec) clone() ParamSpec {
	s.Min = clonePtr(s.Min)
	s.Max = clonePtr(s.Max)
	s.Step = clonePtr(s.Step)
	return s
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr(v float64) *float64 { return &v }

// Schema maps parameter name to its spec for a single kind.
type Schema map[string]ParamSpec

// LengthUnit selects how move coordinates are shown in the editor.
type LengthUnit string

const (
	Centimeters LengthUnit = "cm"
	Millimeters LengthUnit = "mm"
)

func ParseLengthUnit(s string) (LengthUnit, error) {
	switch LengthUnit(strings.ToLower(strings.TrimSpace(s))) {
	case "", Centimeters:
		return Centimeters, nil
	case Millimeters:
		return Millimeters, nil
	default:
		return "", fmt.Errorf("unsupported move display unit %q (expected cm or mm)", s)
	}
}

type kindSchema struct {
	keys  []string
	specs Schema
}

// Registry is the immutable kind -> parameter schema table.
type Registry struct {
	unit  LengthUnit
	kinds map[model.Kind]kindSchema
}

func NewRegistry(unit LengthUnit) *Registry {
	if unit != Millimeters {
		unit = Centimeters
	}
	return &Registry{
		unit: unit,
		kinds: map[model.Kind]kindSchema{
			model.KindMove: moveSchema(unit),
			model.KindGrip: {
				keys: []string{"force"},
				specs: Schema{
					"force": {Label: "Force", Unit: "%", Min: ptr(0), Max: ptr(100), Step: ptr(1)},
				},
			},
			model.KindWait: {
				keys: []string{"duration"},
				specs: Schema{
					"duration": {Label: "Duration", Unit: "s", Min: ptr(0.1), Max: ptr(600), Step: ptr(0.1)},
				},
			},
			model.KindRelease: {keys: []string{}, specs: Schema{}},
		},
	}
}

func moveSchema(unit LengthUnit) kindSchema {
	scale := 100.0
	if unit == Millimeters {
		scale = 1000.0
	}
	// bounds are authored in centimeters
	f := scale / 100
	toInternal := func(ui float64) float64 { return ui / scale }
	toUI := func(m float64) float64 { return m * scale }

	axis := func(label string, lo, hi float64) ParamSpec {
		return ParamSpec{
			Label:      label,
			Unit:       string(unit),
			Min:        ptr(lo * f),
			Max:        ptr(hi * f),
			ToInternal: toInternal,
			ToUI:       toUI,
		}
	}
	return kindSchema{
		keys: []string{"x", "y", "z"},
		specs: Schema{
			"x": axis("X", -200, 200),
			"y": axis("Y", -100, 100),
			"z": axis("Z", 0, 200),
		},
	}
}

// MoveUnit reports the display unit used for move coordinates.
func (r *Registry) MoveUnit() LengthUnit {
	return r.unit
}

// Schema returns a copy of the parameter schema for kind. Unknown kinds
// yield an empty schema.
func (r *Registry) Schema(kind model.Kind) Schema {
	ks, ok := r.kinds[kind]
	if !ok {
		return Schema{}
	}
	out := make(Schema, len(ks.specs))
	for k, s := range ks.specs {
		out[k] = s.clone()
	}
	return out
}

// Keys returns the parameter names of kind in declaration order.
func (r *Registry) Keys(kind model.Kind) []string {
	ks, ok := r.kinds[kind]
	if !ok {
		return []string{}
	}
	return append([]string{}, ks.keys...)
}

// Spec looks up a single parameter.
func (r *Registry) Spec(kind model.Kind, key string) (ParamSpec, bool) {
	ks, ok := r.kinds[kind]
	if !ok {
		return ParamSpec{}, false
	}
	s, ok := ks.specs[key]
	if !ok {
		return ParamSpec{}, false
	}
	return s.clone(), true
}

// HasKey reports whether key is a parameter of kind.
func (r *Registry) HasKey(kind model.Kind, key string) bool {
	_, ok := r.Spec(kind, key)
	return ok
}

var defaultRegistry = NewRegistry(Centimeters)

// Default returns the process-wide registry with centimeter move display.
func Default() *Registry {
	return defaultRegistry
}

func GetSchema(kind model.Kind) Schema {
	return defaultRegistry.Schema(kind)
}
