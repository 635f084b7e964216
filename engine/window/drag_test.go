package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragTrackerIgnoresMovesWithoutPress(t *testing.T) {
	var d DragTracker
	_, _, ok := d.Move(10, 10)
	assert.False(t, ok)
	assert.False(t, d.Active())
}

func TestDragTrackerDeltas(t *testing.T) {
	var d DragTracker
	d.Press(100, 200)

	dx, dy, ok := d.Move(110, 195)
	assert.True(t, ok)
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(-5), dy)

	dx, dy, ok = d.Move(110, 195)
	assert.True(t, ok)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	d.Release()
	_, _, ok = d.Move(0, 0)
	assert.False(t, ok)
}

func TestDragTrackerRepressResetsOrigin(t *testing.T) {
	var d DragTracker
	d.Press(0, 0)
	d.Move(50, 50)
	d.Release()

	d.Press(500, 500)
	dx, dy, _ := d.Move(501, 502)
	assert.Equal(t, float32(1), dx)
	assert.Equal(t, float32(2), dy)
}
