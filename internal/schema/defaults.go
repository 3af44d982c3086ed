package schema

import "armbuilder/internal/model"

// defaultParameters is never handed out directly; DefaultParams copies.
var defaultParameters = map[model.Kind]model.Params{
	model.KindMove:    {"x": 0, "y": 0, "z": 0},
	model.KindGrip:    {"force": 50},
	model.KindRelease: {},
	model.KindWait:    {"duration": 1},
}

// DefaultParams returns a fresh parameter set for kind. Mutating the result
// never affects later calls or other tasks.
func DefaultParams(kind model.Kind) model.Params {
	return defaultParameters[kind].Clone()
}
