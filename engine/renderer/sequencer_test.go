package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEncoder logs every call and tracks the bound state the way a GPU pass would.
type recordingEncoder struct {
	events  []string
	current pipeline.State
	open    bool

	// statesAtBegin is the bound state observed when each pass opened.
	statesAtBegin []pipeline.State
	uploads       [][]byte

	failPipeline string
	failEnd      bool
}

func newRecordingEncoder() *recordingEncoder {
	return &recordingEncoder{current: pipeline.DefaultState()}
}

func (e *recordingEncoder) BeginPass(clear bool) error {
	if e.open {
		return errors.New("pass already open")
	}
	e.open = true
	e.statesAtBegin = append(e.statesAtBegin, e.current)
	e.events = append(e.events, fmt.Sprintf("begin(clear=%t)", clear))
	return nil
}

func (e *recordingEncoder) SetPipelineState(p Pass) error {
	if p.PipelineKey == e.failPipeline {
		return errors.New("no such pipeline")
	}
	e.current = p.State
	e.events = append(e.events, "pipeline:"+p.PipelineKey)
	return nil
}

func (e *recordingEncoder) SetResources(p Pass) error {
	e.events = append(e.events, "resources:"+p.Name)
	return nil
}

func (e *recordingEncoder) Draw(p Pass) {
	e.events = append(e.events, "draw:"+p.Name)
}

func (e *recordingEncoder) ResetPipelineState() {
	e.current = pipeline.DefaultState()
	e.events = append(e.events, "reset")
}

func (e *recordingEncoder) EndPass() error {
	e.open = false
	e.events = append(e.events, "end")
	if e.failEnd {
		return errors.New("submit failed")
	}
	return nil
}

func (e *recordingEncoder) WriteTransform(data []byte) error {
	e.uploads = append(e.uploads, append([]byte(nil), data...))
	e.events = append(e.events, "upload")
	return nil
}

func (e *recordingEncoder) BindTransform() {
	e.events = append(e.events, "bind")
}

func framePasses() []Pass {
	var sky, grid, box [16]float32
	common.Translate(sky[:], 0, 0, 1)
	common.Translate(grid[:], 0, 0, 2)
	common.Translate(box[:], 0, 0, 3)
	return []Pass{
		{Name: "skybox", PipelineKey: "skybox", State: pipeline.SkyboxState(), World: common.IdentityMatrix(), ViewProj: sky},
		{Name: "grid", PipelineKey: "lines", State: pipeline.LineState(), World: common.IdentityMatrix(), ViewProj: grid},
		{Name: "box", PipelineKey: "textured", State: pipeline.DefaultState(), World: box, ViewProj: box},
	}
}

func TestSequenceOrderAndPerPassContract(t *testing.T) {
	enc := newRecordingEncoder()
	up := uploader.NewUploader(enc)

	require.NoError(t, Sequence(enc, up, framePasses()))

	assert.Equal(t, []string{
		"begin(clear=true)", "pipeline:skybox", "resources:skybox", "upload", "bind", "draw:skybox", "reset", "end",
		"begin(clear=false)", "pipeline:lines", "resources:grid", "upload", "bind", "draw:grid", "reset", "end",
		"begin(clear=false)", "pipeline:textured", "resources:box", "upload", "bind", "draw:box", "end",
	}, enc.events)
}

func TestSequenceRestoresDefaultStateBetweenPasses(t *testing.T) {
	enc := newRecordingEncoder()
	require.NoError(t, Sequence(enc, uploader.NewUploader(enc), framePasses()))

	require.Len(t, enc.statesAtBegin, 3)
	for i, s := range enc.statesAtBegin {
		assert.True(t, s.IsDefault(), "pass %d began with leaked state %+v", i, s)
	}
	assert.True(t, enc.current.IsDefault())
}

func TestSequenceUploadsEachPassTransform(t *testing.T) {
	enc := newRecordingEncoder()
	passes := framePasses()
	require.NoError(t, Sequence(enc, uploader.NewUploader(enc), passes))

	require.Len(t, enc.uploads, len(passes))
	for i, p := range passes {
		want := uploader.TransformUniform{World: p.World, ViewProj: p.ViewProj}.Bytes()
		assert.Equal(t, want, enc.uploads[i], "pass %s", p.Name)
	}
}

func TestSequenceStopsAtFailingPass(t *testing.T) {
	enc := newRecordingEncoder()
	enc.failPipeline = "lines"

	err := Sequence(enc, uploader.NewUploader(enc), framePasses())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass 1 (grid)")

	// The failed pass is still closed, and the box pass never starts.
	assert.Equal(t, "end", enc.events[len(enc.events)-1])
	assert.NotContains(t, enc.events, "draw:box")
	assert.False(t, enc.open)
}

func TestSequenceReportsSubmitError(t *testing.T) {
	enc := newRecordingEncoder()
	enc.failEnd = true

	err := Sequence(enc, uploader.NewUploader(enc), framePasses())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass 0 (skybox): submit failed")
	assert.Contains(t, enc.events, "reset")
}

func TestSequenceEmpty(t *testing.T) {
	enc := newRecordingEncoder()
	assert.NoError(t, Sequence(enc, uploader.NewUploader(enc), nil))
	assert.Empty(t, enc.events)
}

func TestPassElementCountWithoutMesh(t *testing.T) {
	p := Pass{Name: "empty"}
	assert.False(t, p.Indexed())
	assert.Zero(t, p.ElementCount())
}
