package uploader

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	writes [][]byte
	binds  int
	err    error
	events []string
}

func (s *recordingSink) WriteTransform(data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, append([]byte(nil), data...))
	s.events = append(s.events, "write")
	return nil
}

func (s *recordingSink) BindTransform() {
	s.binds++
	s.events = append(s.events, "bind")
}

func floatAt(data []byte, index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[index*4:]))
}

func TestMarshalStoresRowMajor(t *testing.T) {
	var world [16]float32
	common.Translate(world[:], 1, 2, 3)

	data := TransformUniform{World: world, ViewProj: common.IdentityMatrix()}.Bytes()
	require.Len(t, data, TransformSize)

	// Row-major: the translation sits at the end of the first three rows.
	assert.Equal(t, float32(1), floatAt(data, 3))
	assert.Equal(t, float32(2), floatAt(data, 7))
	assert.Equal(t, float32(3), floatAt(data, 11))
	assert.Equal(t, float32(0), floatAt(data, 12))

	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.Equal(t, want, floatAt(data, 16+i), "view_proj element %d", i)
	}
}

func TestUploadOverwritesWholeBuffer(t *testing.T) {
	sink := &recordingSink{}
	up := NewUploader(sink)

	var a, b [16]float32
	for i := range a {
		a[i] = float32(i + 1)
		b[i] = -float32(i + 1)
	}

	require.NoError(t, up.Upload(a, a))
	require.NoError(t, up.Upload(b, common.IdentityMatrix()))

	require.Len(t, sink.writes, 2)
	assert.Equal(t, TransformUniform{World: b, ViewProj: common.IdentityMatrix()}.Bytes(), sink.writes[1])
	assert.Len(t, sink.writes[1], TransformSize)
	assert.Equal(t, b, up.Last().World)
}

func TestUploadWritesBeforeBinding(t *testing.T) {
	sink := &recordingSink{}
	up := NewUploader(sink)

	require.NoError(t, up.Upload(common.IdentityMatrix(), common.IdentityMatrix()))
	assert.Equal(t, []string{"write", "bind"}, sink.events)
}

func TestUploadError(t *testing.T) {
	sink := &recordingSink{err: errors.New("queue lost")}
	up := NewUploader(sink)

	err := up.Upload(common.IdentityMatrix(), common.IdentityMatrix())
	require.Error(t, err)
	assert.ErrorIs(t, err, sink.err)
	assert.Zero(t, sink.binds)
}
