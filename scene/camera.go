package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV      float64
	Near     float64
	Far      float64
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
}

// NewCamera returns a 75° camera with near 0.1 and far 1000 at position,
// looking at the origin.
func NewCamera(position mgl64.Vec3) *Camera {
	return &Camera{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: position,
		Up:       mgl64.Vec3{0, 1, 0},
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	dir := c.Target.Sub(c.Position)
	// Looking straight along Up makes LookAt degenerate.
	if dir.Len() > 0 && math.Abs(dir.Normalize().Dot(up.Normalize())) > 1-1e-9 {
		up = mgl64.Vec3{0, 0, 1}
	}
	return mgl64.LookAtV(c.Position, c.Target, up)
}

// Projection returns the camera-to-clip matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}
