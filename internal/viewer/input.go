package viewer

import (
	"math"

	"github.com/gogpu/logoscene/scene"
)

// Input is the pointer state sampled once per tick.
type Input struct {
	X, Y   float64 // cursor in window pixels, origin top-left
	Left   bool    // rotate
	Right  bool    // pan
	WheelY float64 // positive scrolls up (zoom in)
}

// wheelStep is the dolly factor for one wheel notch.
const wheelStep = 0.95

// controller turns successive Input samples into a scene.Pointer and
// orbit-control gestures.
type controller struct {
	lastX, lastY float64
	dragging     bool
}

// apply feeds in to controls and returns the normalized pointer for a
// w×h window.
func (c *controller) apply(in Input, w, h int, controls *scene.OrbitControls) scene.Pointer {
	dx, dy := in.X-c.lastX, in.Y-c.lastY
	held := in.Left || in.Right
	if controls != nil && c.dragging && held {
		switch {
		case in.Left:
			controls.Drag(dx, dy, float64(h))
		case in.Right:
			controls.Pan(dx, dy, float64(h))
		}
	}
	if controls != nil && in.WheelY != 0 {
		controls.Zoom(math.Pow(wheelStep, -in.WheelY))
	}
	c.dragging = held
	c.lastX, c.lastY = in.X, in.Y
	return scene.PointerFromPixels(in.X, in.Y, w, h)
}
