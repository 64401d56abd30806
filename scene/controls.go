package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitControls rotates, pans and (optionally) dollies a camera around
// its target. It only changes the camera in response to user input;
// program logic never calls it.
type OrbitControls struct {
	Camera *Camera

	EnableRotate bool
	EnablePan    bool
	EnableZoom   bool

	RotateSpeed float64
	PanSpeed    float64
	ZoomSpeed   float64

	// MinPolar and MaxPolar bound the polar angle measured from +Y.
	MinPolar float64
	MaxPolar float64

	MinDistance float64
	MaxDistance float64
}

// NewOrbitControls attaches controls to cam. Rotation and pan are on;
// zoom is on unless disabled by the caller.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:       cam,
		EnableRotate: true,
		EnablePan:    true,
		EnableZoom:   true,
		RotateSpeed:  1,
		PanSpeed:     1,
		ZoomSpeed:    1,
		MinPolar:     0,
		MaxPolar:     math.Pi,
		MinDistance:  0,
		MaxDistance:  math.Inf(1),
	}
}

const polarEpsilon = 1e-6

// spherical returns radius, azimuth (around +Y, from +Z) and polar angle
// (from +Y) of the camera relative to its target.
func (o *OrbitControls) spherical() (r, theta, phi float64) {
	off := o.Camera.Position.Sub(o.Camera.Target)
	r = off.Len()
	if r == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(off.X(), off.Z())
	phi = math.Acos(mgl64.Clamp(off.Y()/r, -1, 1))
	return r, theta, phi
}

func (o *OrbitControls) place(r, theta, phi float64) {
	lo := math.Max(o.MinPolar, polarEpsilon)
	hi := math.Min(o.MaxPolar, math.Pi-polarEpsilon)
	phi = mgl64.Clamp(phi, lo, hi)
	r = mgl64.Clamp(r, o.MinDistance, o.MaxDistance)

	sinPhi := math.Sin(phi)
	off := mgl64.Vec3{
		r * sinPhi * math.Sin(theta),
		r * math.Cos(phi),
		r * sinPhi * math.Cos(theta),
	}
	o.Camera.Position = o.Camera.Target.Add(off)
}

// Rotate orbits the camera by the given azimuth and polar deltas in
// radians. Positive azimuth turns the camera to the left around the target.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float64) {
	if !o.EnableRotate {
		return
	}
	r, theta, phi := o.spherical()
	if r == 0 {
		return
	}
	o.place(r, theta-dAzimuth*o.RotateSpeed, phi-dPolar*o.RotateSpeed)
}

// Drag converts a pointer drag of (dx, dy) pixels in a viewport of the
// given height into a rotation: a full-height drag is one full turn.
func (o *OrbitControls) Drag(dx, dy, height float64) {
	if height <= 0 {
		return
	}
	o.Rotate(2*math.Pi*dx/height, 2*math.Pi*dy/height)
}

// Pan moves camera and target together in the view plane by a pointer
// drag of (dx, dy) pixels in a viewport of the given height.
func (o *OrbitControls) Pan(dx, dy, height float64) {
	if !o.EnablePan || height <= 0 {
		return
	}
	c := o.Camera
	off := c.Position.Sub(c.Target)
	targetDist := off.Len() * math.Tan(mgl64.DegToRad(c.FOV)/2)

	view := c.View()
	right := mgl64.Vec3{view.At(0, 0), view.At(0, 1), view.At(0, 2)}
	up := mgl64.Vec3{view.At(1, 0), view.At(1, 1), view.At(1, 2)}

	move := right.Mul(-2 * dx * targetDist / height * o.PanSpeed).
		Add(up.Mul(2 * dy * targetDist / height * o.PanSpeed))
	c.Position = c.Position.Add(move)
	c.Target = c.Target.Add(move)
}

// Zoom dollies towards the target by scale (> 1 moves closer).
// It is a no-op when EnableZoom is false.
func (o *OrbitControls) Zoom(scale float64) {
	if !o.EnableZoom || scale <= 0 {
		return
	}
	r, theta, phi := o.spherical()
	if r == 0 {
		return
	}
	o.place(r/math.Pow(scale, o.ZoomSpeed), theta, phi)
}
