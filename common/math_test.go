package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertMatrixInDelta(t *testing.T, want, got [16]float32, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}

func TestMul4AppliesRightOperandFirst(t *testing.T) {
	var tr, sc, out [16]float32
	Translate(tr[:], 3, 4, 5)
	Scale(sc[:], 2, 1, 2)
	Mul4(out[:], tr[:], sc[:])

	p, ok := TransformPoint(out[:], Vec3{1, 1, 1})
	require.True(t, ok)
	assert.InDelta(t, 5, p[0], eps)
	assert.InDelta(t, 5, p[1], eps)
	assert.InDelta(t, 7, p[2], eps)
}

func TestTranspose4(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	var out [16]float32
	Transpose4(out[:], m[:])
	assert.Equal(t, float32(4), out[1])
	assert.Equal(t, float32(1), out[4])
	assert.Equal(t, float32(12), out[3])

	// In place.
	Transpose4(out[:], out[:])
	assert.Equal(t, m, out)
}

func TestDropTranslationIsPure(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 3, 4, 5, 0, 0, 0, 0, 1, 0)
	original := view

	dropped := DropTranslation(view)

	assert.Equal(t, original, view)
	assert.Zero(t, dropped[12])
	assert.Zero(t, dropped[13])
	assert.Zero(t, dropped[14])
	assert.Equal(t, view[0:12], dropped[0:12])
	assert.Equal(t, view[15], dropped[15])
}

func TestInvert4RoundTrip(t *testing.T) {
	var view, proj, vp, inv, product [16]float32
	LookAt(view[:], 6, 5, 6, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], Radians(60), 16.0/9.0, 0.1, 1000)
	Mul4(vp[:], proj[:], view[:])

	require.True(t, Invert4(inv[:], vp[:]))
	Mul4(product[:], vp[:], inv[:])
	assertMatrixInDelta(t, IdentityMatrix(), product, 1e-3)
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 2, 3, 4, 0, 0, 0, 0, 1, 0)

	p, ok := TransformPoint(view[:], Vec3{2, 3, 4})
	require.True(t, ok)
	assert.InDelta(t, 0, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.InDelta(t, 0, p[2], eps)

	// The target lies on the negative view-space Z axis.
	target, _ := TransformPoint(view[:], Vec3{})
	assert.InDelta(t, 0, target[0], eps)
	assert.InDelta(t, 0, target[1], eps)
	assert.InDelta(t, -Vec3{2, 3, 4}.Length(), target[2], 1e-4)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], Radians(60), 1, 0.1, 1000)

	near, _ := TransformPoint(proj[:], Vec3{0, 0, -0.1})
	far, _ := TransformPoint(proj[:], Vec3{0, 0, -1000})
	assert.InDelta(t, 0, near[2], eps)
	assert.InDelta(t, 1, far[2], 1e-4)
	assert.InDelta(t, 1/math32.Tan(Radians(30)), proj[5], eps)
}

func TestTransformPointZeroW(t *testing.T) {
	var m [16]float32
	_, ok := TransformPoint(m[:], Vec3{1, 2, 3})
	assert.False(t, ok)
}
