package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene/material"
)

// Pointer is a pointer position in normalized device coordinates:
// both axes in [-1, 1], Y up.
type Pointer struct {
	X, Y float64
}

// PointerFromPixels normalizes a window position (origin top-left, Y
// down) in a w×h viewport. Positions outside the viewport are clamped.
func PointerFromPixels(px, py float64, w, h int) Pointer {
	if w <= 0 || h <= 0 {
		return Pointer{}
	}
	return Pointer{
		X: mgl64.Clamp(px/float64(w)*2-1, -1, 1),
		Y: mgl64.Clamp(-(py/float64(h)*2 - 1), -1, 1),
	}
}

// Frame is the input to one update phase.
type Frame struct {
	// Delta is the time in seconds since the previous frame.
	Delta float64
	// Elapsed is the total time in seconds including this frame.
	Elapsed float64
	// Index counts frames from 0.
	Index   uint64
	Pointer Pointer
}

// Updater mutates a node once per frame. Animation is scaled by
// Frame.Delta so speed does not depend on frame rate.
type Updater interface {
	Update(f Frame, n *Node)
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(f Frame, n *Node)

// Update implements Updater.
func (fn UpdaterFunc) Update(f Frame, n *Node) { fn(f, n) }

// LogoSpin turns a node around its local Z axis at Rate radians per
// second and points Gradient's origin at the pointer.
type LogoSpin struct {
	Rate float64
	// Gradient is the pointer-driven depth layer; nil disables tracking.
	Gradient *material.Depth
}

// Update implements Updater.
func (s *LogoSpin) Update(f Frame, n *Node) {
	n.Transform.Rotation.Z += f.Delta * s.Rate
	if s.Gradient != nil {
		s.Gradient.Origin = mgl64.Vec3{-f.Pointer.Y, f.Pointer.X, 0}
	}
}

// Tumble rotates a node on all three axes by one shared angle that
// advances at Rate radians per second.
type Tumble struct {
	Rate  float64
	angle float64
}

// Update implements Updater.
func (t *Tumble) Update(f Frame, n *Node) {
	t.angle += f.Delta * t.Rate
	n.Transform.Rotation = Euler{X: t.angle, Y: t.angle, Z: t.angle}
}

// Angle returns the accumulated angle.
func (t *Tumble) Angle() float64 { return t.angle }

// Clock measures the time between frames.
type Clock struct {
	now  func() time.Time
	last time.Time
}

// NewClock returns a clock whose first Delta is measured from now.
func NewClock() *Clock {
	return &Clock{now: time.Now, last: time.Now()}
}

// Delta returns the seconds elapsed since the previous call.
func (c *Clock) Delta() float64 {
	t := c.now()
	d := t.Sub(c.last).Seconds()
	c.last = t
	if d < 0 {
		return 0
	}
	return d
}
