package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Euler is a rotation in radians applied in X, Y, Z order (R = Rx·Ry·Rz).
type Euler struct {
	X, Y, Z float64
}

// Matrix returns the rotation as a homogeneous matrix.
func (e Euler) Matrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(e.X).
		Mul4(mgl64.HomogRotate3DY(e.Y)).
		Mul4(mgl64.HomogRotate3DZ(e.Z))
}

// Quat returns the rotation as a unit quaternion.
func (e Euler) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(e.Matrix()).Normalize()
}

// Transform places a node in its parent (world) space.
type Transform struct {
	Position mgl64.Vec3
	Rotation Euler
	Scale    mgl64.Vec3
}

// Identity returns a transform with unit scale and no rotation.
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// UniformScale returns an identity transform scaled by s on all axes.
func UniformScale(s float64) Transform {
	return Transform{Scale: mgl64.Vec3{s, s, s}}
}

// Matrix returns the model matrix T·R·S.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Matrix()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// MaxScale returns the largest absolute axis scale.
func (t Transform) MaxScale() float64 {
	return math.Max(math.Abs(t.Scale.X()), math.Max(math.Abs(t.Scale.Y()), math.Abs(t.Scale.Z())))
}
