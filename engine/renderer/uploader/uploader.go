// Package uploader implements the per-draw transform upload contract: one (world, view-projection)
// pair is written to a single shared GPU buffer immediately before each draw.
package uploader

import (
	"fmt"
)

// TransformSink is the GPU side of the upload: a CPU-writable uniform buffer that the vertex
// stage reads through bind group 0.
type TransformSink interface {
	// WriteTransform replaces the whole contents of the shared transform buffer.
	//
	// Parameters:
	//   - data: exactly TransformSize bytes
	//
	// Returns:
	//   - error: an error if the write could not be queued
	WriteTransform(data []byte) error

	// BindTransform binds the shared transform buffer to the vertex stage of the current pass.
	BindTransform()
}

// Uploader writes per-draw transforms. It holds exactly one pair at a time and is not
// double-buffered, so callers upload once per draw, right before the draw.
type Uploader interface {
	// Upload encodes world and viewProj, overwrites the shared buffer and binds it.
	//
	// Parameters:
	//   - world: object-to-world matrix (column-major)
	//   - viewProj: world-to-clip matrix (column-major)
	//
	// Returns:
	//   - error: an error if the sink rejected the write
	Upload(world, viewProj [16]float32) error

	// Last returns the most recently uploaded pair.
	//
	// Returns:
	//   - TransformUniform: the last pair written
	Last() TransformUniform
}

type uploaderImpl struct {
	sink    TransformSink
	scratch [TransformSize]byte
	last    TransformUniform
}

var _ Uploader = &uploaderImpl{}

// NewUploader creates an Uploader writing into sink.
//
// Parameters:
//   - sink: the GPU buffer owner
//
// Returns:
//   - Uploader: the new uploader
func NewUploader(sink TransformSink) Uploader {
	return &uploaderImpl{sink: sink}
}

func (u *uploaderImpl) Upload(world, viewProj [16]float32) error {
	u.last = TransformUniform{World: world, ViewProj: viewProj}
	u.last.Marshal(u.scratch[:])
	if err := u.sink.WriteTransform(u.scratch[:]); err != nil {
		return fmt.Errorf("upload transform: %w", err)
	}
	u.sink.BindTransform()
	return nil
}

func (u *uploaderImpl) Last() TransformUniform {
	return u.last
}
