package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TorusKnot describes a (P,Q) torus knot tube.
type TorusKnot struct {
	Radius          float64 `toml:"radius"`
	Tube            float64 `toml:"tube"`
	TubularSegments int     `toml:"tubular_segments"`
	RadialSegments  int     `toml:"radial_segments"`
	P               int     `toml:"p"`
	Q               int     `toml:"q"`
}

// LogoKnot is the knot used for the logo: radius 0.3666, tube 0.05,
// 420x69 segments, winding (2, 12).
var LogoKnot = TorusKnot{Radius: 0.3666, Tube: 0.05, TubularSegments: 420, RadialSegments: 69, P: 2, Q: 12}

// Key implements Spec.
func (k TorusKnot) Key() string {
	return fmt.Sprintf("torusknot(%g,%g,%d,%d,%d,%d)", k.Radius, k.Tube, k.TubularSegments, k.RadialSegments, k.P, k.Q)
}

// Validate implements Spec.
func (k TorusKnot) Validate() error {
	if k.Radius <= 0 || k.Tube <= 0 {
		return errors.New("torusknot: radius and tube must be positive")
	}
	if k.TubularSegments < 3 || k.RadialSegments < 3 {
		return fmt.Errorf("torusknot: need at least 3 segments, got %dx%d", k.TubularSegments, k.RadialSegments)
	}
	if k.P == 0 {
		return errors.New("torusknot: p must be non-zero")
	}
	return nil
}

// curve returns the point on the knot's center line at parameter u.
func (k TorusKnot) curve(u float64) mgl64.Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	quOverP := float64(k.Q) / float64(k.P) * u
	cs := math.Cos(quOverP)
	return mgl64.Vec3{
		k.Radius * (2 + cs) * 0.5 * cu,
		k.Radius * (2 + cs) * su * 0.5,
		k.Radius * math.Sin(quOverP) * 0.5,
	}
}

// Build generates the knot. Each ring of RadialSegments+1 vertices is
// placed in the Frenet-like frame of the center line, for
// TubularSegments+1 rings.
func (k TorusKnot) Build() *Mesh {
	tub, rad := k.TubularSegments, k.RadialSegments
	m := &Mesh{
		Name:      k.Key(),
		Positions: make([]mgl64.Vec3, 0, (tub+1)*(rad+1)),
		Normals:   make([]mgl64.Vec3, 0, (tub+1)*(rad+1)),
		Indices:   make([]uint32, 0, 6*tub*rad),
	}

	for i := 0; i <= tub; i++ {
		u := float64(i) / float64(tub) * float64(k.P) * math.Pi * 2

		p1 := k.curve(u)
		p2 := k.curve(u + 0.01)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b = b.Normalize()
		n = n.Normalize()

		for j := 0; j <= rad; j++ {
			v := float64(j) / float64(rad) * math.Pi * 2
			cx := -k.Tube * math.Cos(v)
			cy := k.Tube * math.Sin(v)

			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, pos.Sub(p1).Normalize())
		}
	}

	row := uint32(rad + 1)
	for j := 1; j <= tub; j++ {
		for i := 1; i <= rad; i++ {
			a := row*uint32(j-1) + uint32(i-1)
			b := row*uint32(j) + uint32(i-1)
			c := row*uint32(j) + uint32(i)
			d := row*uint32(j-1) + uint32(i)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}
