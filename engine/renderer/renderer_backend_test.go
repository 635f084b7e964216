package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestParseMSAA(t *testing.T) {
	for _, n := range []int{1, 4, 8, 16} {
		got, ok := ParseMSAA(n)
		assert.True(t, ok)
		assert.Equal(t, MSAASampleCount(n), got)
	}

	got, ok := ParseMSAA(3)
	assert.False(t, ok)
	assert.Equal(t, MSAA4x, got)
}

func TestClearColorRGB(t *testing.T) {
	c := ClearColorRGB([3]float64{0.08, 0.09, 0.11})
	assert.Equal(t, DefaultClearColor, c)
}

func TestMergeBindGroupLayoutsOrsVisibility(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{0: {Label: "v", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}}}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "f", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}, {Binding: 1, Visibility: wgpu.ShaderStageFragment}}},
		1: {Label: "tex", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	assert.Len(t, merged, 2)
	assert.Equal(t, "v", merged[0].Label)
	if assert.Len(t, merged[0].Entries, 2) {
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
		assert.EqualValues(t, 1, merged[0].Entries[1].Binding)
	}
	assert.Equal(t, "tex", merged[1].Label)
}
