package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uploader"
)

// PassEncoder records one pass at a time into the current frame.
//
// Per pass the sequencer calls BeginPass, SetPipelineState, SetResources, then uploads the
// transform, then Draw, and finally EndPass. ResetPipelineState is called before EndPass
// whenever the pass used non-default state.
type PassEncoder interface {
	// BeginPass opens a pass on the frame's color and depth targets.
	//
	// Parameters:
	//   - clear: true to clear color and depth, false to keep what earlier passes drew
	//
	// Returns:
	//   - error: an error if no frame is active or the encoder could not be created
	BeginPass(clear bool) error

	// SetPipelineState binds the pipeline registered under p.PipelineKey.
	//
	// Parameters:
	//   - p: the pass being recorded
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or its state does not match p.State
	SetPipelineState(p Pass) error

	// SetResources binds the pass's vertex/index buffers and its material bind group.
	//
	// Parameters:
	//   - p: the pass being recorded
	//
	// Returns:
	//   - error: an error if the mesh has no vertex buffer or the material has no bind group
	SetResources(p Pass) error

	// Draw issues the draw call with the pass's element count.
	//
	// Parameters:
	//   - p: the pass being recorded
	Draw(p Pass)

	// ResetPipelineState clears the tracked pipeline state back to the default so the next
	// BeginPass leak check passes. The GPU state itself lives in the pipeline object and ends
	// with the render pass.
	ResetPipelineState()

	// EndPass closes the pass and submits it.
	//
	// Returns:
	//   - error: an error if the recorded commands could not be submitted
	EndPass() error
}

// Sequence records passes in slice order. Only the first pass clears the targets. Every pass
// uploads its own transform pair, and state left by a non-default pass is reset before the
// next pass begins. Sequence stops at the first failing pass.
//
// Parameters:
//   - enc: the encoder recording into the current frame
//   - up: the transform uploader sharing the frame's transform buffer
//   - passes: the ordered pass list
//
// Returns:
//   - error: the first pass error, wrapped with the pass index and name
func Sequence(enc PassEncoder, up uploader.Uploader, passes []Pass) error {
	for i, p := range passes {
		if err := runPass(enc, up, p, i == 0); err != nil {
			return fmt.Errorf("pass %d (%s): %w", i, p.Name, err)
		}
	}
	return nil
}

func runPass(enc PassEncoder, up uploader.Uploader, p Pass, clear bool) (err error) {
	if err = enc.BeginPass(clear); err != nil {
		return err
	}
	defer func() {
		if endErr := enc.EndPass(); err == nil {
			err = endErr
		}
	}()

	if err = enc.SetPipelineState(p); err != nil {
		return err
	}
	if !p.State.IsDefault() {
		defer enc.ResetPipelineState()
	}
	if err = enc.SetResources(p); err != nil {
		return err
	}
	if err = up.Upload(p.World, p.ViewProj); err != nil {
		return err
	}
	enc.Draw(p)
	return nil
}
