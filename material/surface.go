package material

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
)

// Surface is everything a material may read about one visible fragment.
// The renderer fills one per shaded pixel.
type Surface struct {
	// Position is the fragment position in world space.
	Position mgl64.Vec3
	// Local is the fragment position in object space.
	Local mgl64.Vec3
	// Normal is the unit world-space normal, flipped to face the viewer
	// when a back face is drawn.
	Normal mgl64.Vec3
	// Eye is the camera position in world space.
	Eye mgl64.Vec3
	// View is the unit vector from Position towards Eye.
	View mgl64.Vec3
	// Scale is the largest axis scale of the node's model matrix.
	Scale float64

	Lighting *Lighting
	Backdrop Backdrop
}

// Environment is an image-based lighting source sampled by direction.
type Environment interface {
	Sample(dir mgl64.Vec3) logoscene.RGBA
}

// Backdrop gives transmissive materials access to what was rendered
// behind them. Sample projects a world-space point to the screen and
// returns the opaque color there, blurred according to roughness.
// ok is false when the point falls outside the frame.
type Backdrop interface {
	Sample(p mgl64.Vec3, roughness float64) (c logoscene.RGBA, ok bool)
}

// PointLight emits from a point in all directions.
// A Decay of 0 disables distance falloff.
type PointLight struct {
	Position  mgl64.Vec3
	Color     logoscene.RGBA
	Intensity float64
	Distance  float64
	Decay     float64
}

// Radiance returns the unit direction from p towards the light and the
// light color arriving at p.
func (l PointLight) Radiance(p mgl64.Vec3) (mgl64.Vec3, logoscene.RGBA) {
	toLight := l.Position.Sub(p)
	d := toLight.Len()
	if d == 0 {
		return mgl64.Vec3{}, logoscene.Black
	}
	atten := 1.0
	if l.Decay > 0 {
		atten = 1 / math.Pow(math.Max(d, 0.01), l.Decay)
	}
	if l.Distance > 0 {
		// Smooth cutoff towards Distance.
		r := d / l.Distance
		w := math.Max(0, 1-r*r*r*r)
		atten *= w * w
	}
	return toLight.Mul(1 / d), l.Color.Scale(l.Intensity * atten)
}

// Lighting collects the scene lights visible to every material.
type Lighting struct {
	Ambient      logoscene.RGBA
	Points       []PointLight
	Env          Environment
	EnvIntensity float64
}

// Irradiance returns ambient plus Lambert-weighted point light radiance
// at p with normal n.
func (l *Lighting) Irradiance(p, n mgl64.Vec3) logoscene.RGBA {
	if l == nil {
		return logoscene.White
	}
	sum := l.Ambient
	for _, pl := range l.Points {
		dir, c := pl.Radiance(p)
		if ndl := n.Dot(dir); ndl > 0 {
			sum = sum.Add(c.Scale(ndl))
		}
	}
	sum.A = 1
	return sum
}

func reflect(i, n mgl64.Vec3) mgl64.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// refract bends unit vector i through a surface with unit normal n and
// index ratio eta. It returns the reflection on total internal reflection.
func refract(i, n mgl64.Vec3, eta float64) mgl64.Vec3 {
	cosI := -n.Dot(i)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return reflect(i, n)
	}
	return i.Mul(eta).Add(n.Mul(eta*cosI - math.Sqrt(k)))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
