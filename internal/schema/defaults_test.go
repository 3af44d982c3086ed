package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"armbuilder/internal/model"
)

func TestDefaultParams_Values(t *testing.T) {
	assert.Equal(t, model.Params{"x": 0, "y": 0, "z": 0}, DefaultParams(model.KindMove))
	assert.Equal(t, model.Params{"force": 50}, DefaultParams(model.KindGrip))
	assert.Equal(t, model.Params{}, DefaultParams(model.KindRelease))
	assert.Equal(t, model.Params{"duration": 1}, DefaultParams(model.KindWait))
}

func TestDefaultParams_NoAliasing(t *testing.T) {
	for _, k := range model.Kinds() {
		first := DefaultParams(k)
		first["x"] = 99
		first["injected"] = 1

		second := DefaultParams(k)
		assert.NotContains(t, second, "injected", string(k))
		if k == model.KindMove {
			assert.Equal(t, 0.0, second["x"])
		}
	}
}

func TestDefaultParams_UnknownKindIsEmpty(t *testing.T) {
	p := DefaultParams(model.Kind("spin"))
	assert.NotNil(t, p)
	assert.Empty(t, p)
}

func TestDefaultParams_KeysMatchSchema(t *testing.T) {
	for _, k := range model.Kinds() {
		p := DefaultParams(k)
		assert.Len(t, p, len(Default().Keys(k)), string(k))
		for _, key := range Default().Keys(k) {
			assert.Contains(t, p, key)
		}
	}
}
