package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_CloneIsIndependent(t *testing.T) {
	p := Params{"x": 1}
	c := p.Clone()
	c["x"] = 2

	assert.Equal(t, 1.0, p["x"])
	assert.Equal(t, 2.0, c["x"])
}

func TestParams_CloneNil(t *testing.T) {
	var p Params
	c := p.Clone()

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestParams_WithLeavesReceiver(t *testing.T) {
	p := Params{"x": 1, "y": 2}
	next := p.With("x", 5)

	assert.Equal(t, Params{"x": 1, "y": 2}, p)
	assert.Equal(t, Params{"x": 5, "y": 2}, next)
}

func TestParams_GetMissingIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Params{}.Get("force"))
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("jump").Valid())
	assert.False(t, Kind("").Valid())
}

func TestTask_CloneCopiesParameters(t *testing.T) {
	orig := Task{ID: "a", Type: KindGrip, Parameters: Params{"force": 50}, Description: "Grip with 50% force"}
	c := orig.Clone()
	c.Parameters["force"] = 10

	assert.Equal(t, 50.0, orig.Parameters["force"])
}
