package window

// DragTracker turns absolute cursor positions into per-event deltas while a button is held.
type DragTracker struct {
	active       bool
	lastX, lastY float32
}

// Press starts a drag at the given cursor position.
func (d *DragTracker) Press(x, y float32) {
	d.active = true
	d.lastX, d.lastY = x, y
}

// Release ends the drag.
func (d *DragTracker) Release() {
	d.active = false
}

// Active reports whether a drag is in progress.
func (d *DragTracker) Active() bool {
	return d.active
}

// Move records a new cursor position and returns the movement since the previous one.
// ok is false when no drag is in progress.
func (d *DragTracker) Move(x, y float32) (dx, dy float32, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy, true
}
