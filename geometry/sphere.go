package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere describes a UV sphere centered at the origin.
type Sphere struct {
	Radius         float64 `toml:"radius"`
	WidthSegments  int     `toml:"width_segments"`
	HeightSegments int     `toml:"height_segments"`
}

// Key implements Spec.
func (s Sphere) Key() string {
	return fmt.Sprintf("sphere(%g,%d,%d)", s.Radius, s.WidthSegments, s.HeightSegments)
}

// Validate implements Spec.
func (s Sphere) Validate() error {
	if s.Radius <= 0 {
		return errors.New("sphere: radius must be positive")
	}
	if s.WidthSegments < 3 || s.HeightSegments < 2 {
		return fmt.Errorf("sphere: need at least 3x2 segments, got %dx%d", s.WidthSegments, s.HeightSegments)
	}
	return nil
}

// Build generates the sphere. Vertices are laid out row by row from the
// +Y pole to the -Y pole, (WidthSegments+1) per row, with the seam
// duplicated. The degenerate triangles at both poles are skipped, giving
// 6*w*(h-1) indices.
func (s Sphere) Build() *Mesh {
	w, h := s.WidthSegments, s.HeightSegments
	m := &Mesh{
		Name:      s.Key(),
		Positions: make([]mgl64.Vec3, 0, (w+1)*(h+1)),
		Normals:   make([]mgl64.Vec3, 0, (w+1)*(h+1)),
		Indices:   make([]uint32, 0, 6*w*(h-1)),
	}

	for iy := 0; iy <= h; iy++ {
		theta := float64(iy) / float64(h) * math.Pi
		sinT, cosT := math.Sincos(theta)
		for ix := 0; ix <= w; ix++ {
			phi := float64(ix) / float64(w) * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			n := mgl64.Vec3{-cosP * sinT, cosT, sinP * sinT}
			m.Positions = append(m.Positions, n.Mul(s.Radius))
			m.Normals = append(m.Normals, n)
		}
	}

	row := uint32(w + 1)
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			a := uint32(iy)*row + uint32(ix) + 1
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix) + 1
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != h-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}
