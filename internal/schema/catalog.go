package schema

import "armbuilder/internal/model"

// FieldInfo is the wire form of one ParamSpec. Conversions are not
// serialized; MoveUnit tells clients how move coordinates are scaled.
type FieldInfo struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Unit  string   `json:"unit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Step  *float64 `json:"step,omitempty"`
}

type KindInfo struct {
	Type     model.Kind   `json:"type"`
	Fields   []FieldInfo  `json:"fields"`
	Defaults model.Params `json:"defaults"`
	Example  string       `json:"example"`
}

type Catalog struct {
	MoveUnit LengthUnit `json:"moveUnit"`
	Kinds    []KindInfo `json:"kinds"`
}

// Catalog lists every kind in palette order with its fields and defaults.
func (r *Registry) Catalog() Catalog {
	out := Catalog{MoveUnit: r.unit, Kinds: make([]KindInfo, 0, len(model.Kinds()))}
	for _, kind := range model.Kinds() {
		defaults := DefaultParams(kind)
		info := KindInfo{
			Type:     kind,
			Fields:   make([]FieldInfo, 0),
			Defaults: defaults,
			Example:  Describe(kind, defaults),
		}
		for _, key := range r.Keys(kind) {
			spec, _ := r.Spec(kind, key)
			info.Fields = append(info.Fields, FieldInfo{
				Key:   key,
				Label: spec.Label,
				Unit:  spec.Unit,
				Min:   spec.Min,
				Max:   spec.Max,
				Step:  spec.Step,
			})
		}
		out.Kinds = append(out.Kinds, info)
	}
	return out
}
