package uploader

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// TransformSize is the byte size of one TransformUniform: two 4x4 float32 matrices.
const TransformSize = 2 * 16 * 4

// TransformUniform is the per-draw uniform block read by every vertex shader.
// Both matrices are column-major in Go. Marshal stores them transposed, so the shader sees
// row-major data and multiplies row vectors (p * world * view_proj).
type TransformUniform struct {
	World    [16]float32
	ViewProj [16]float32
}

// Marshal writes the uniform into dst, which must hold at least TransformSize bytes.
// Every byte of dst[:TransformSize] is overwritten.
//
// Parameters:
//   - dst: destination buffer
func (u TransformUniform) Marshal(dst []byte) {
	_ = dst[TransformSize-1]
	putMatrix(dst[:64], u.World)
	putMatrix(dst[64:TransformSize], u.ViewProj)
}

// Bytes returns a freshly allocated encoding of the uniform.
func (u TransformUniform) Bytes() []byte {
	out := make([]byte, TransformSize)
	u.Marshal(out)
	return out
}

func putMatrix(dst []byte, m [16]float32) {
	var t [16]float32
	common.Transpose4(t[:], m[:])
	for i, v := range t {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
