package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextureStagingDataValid(t *testing.T) {
	assert.True(t, TextureStagingData{Pixels: make([]byte, 2*3*4), Width: 2, Height: 3}.Valid())
	assert.False(t, TextureStagingData{Pixels: make([]byte, 5), Width: 2, Height: 3}.Valid())
	assert.False(t, TextureStagingData{}.Valid())
}

func TestCubemapStagingDataValid(t *testing.T) {
	var c CubemapStagingData
	c.Size = 4
	for i := range c.Faces {
		c.Faces[i] = make([]byte, 4*4*4)
	}
	assert.True(t, c.Valid())

	c.Faces[3] = c.Faces[3][:10]
	assert.False(t, c.Valid())

	assert.False(t, CubemapStagingData{}.Valid())
}
