package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(2), Clamp(float32(0), 2, 200))
	assert.Equal(t, float32(200), Clamp(float32(1e9), 2, 200))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestWrapAngle(t *testing.T) {
	twoPi := 2 * math32.Pi
	for _, in := range []float32{0, 1, -1, twoPi, -twoPi, 7 * twoPi, -1e-9, 1e6, -1e6} {
		got := WrapAngle(in)
		assert.GreaterOrEqual(t, got, float32(0), "input %v", in)
		assert.Less(t, got, twoPi, "input %v", in)
	}
	assert.InDelta(t, twoPi-1, WrapAngle(-1), 1e-5)
	assert.InDelta(t, 1, WrapAngle(1+twoPi), 1e-5)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1, 2, 3))
	assert.False(t, IsFinite(1, math32.NaN()))
	assert.False(t, IsFinite(math32.Inf(-1)))
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	assert.InDelta(t, 1, v.Length(), 1e-6)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}
