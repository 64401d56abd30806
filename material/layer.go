package material

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
)

var (
	// ErrUnknownKind is returned for an unrecognized layer kind.
	ErrUnknownKind = errors.New("unknown layer kind")
	// ErrUnknownMapping is returned for an unrecognized depth mapping.
	ErrUnknownMapping = errors.New("unknown depth mapping")
)

// Layer is one blend-composited contribution to a Stack.
type Layer interface {
	// Evaluate returns the layer color and its opacity for a fragment.
	Evaluate(s *Surface) (logoscene.RGBA, float64)
	// BlendMode reports how the layer is composited.
	BlendMode() Mode
	// Kind is the layer kind name: "base", "depth" or "fresnel".
	Kind() string
}

// Base is a solid color layer.
type Base struct {
	Color logoscene.RGBA
	Alpha float64
	Mode  Mode
}

// Evaluate implements Layer.
func (b *Base) Evaluate(*Surface) (logoscene.RGBA, float64) { return b.Color, b.Alpha }

// BlendMode implements Layer.
func (b *Base) BlendMode() Mode { return b.Mode }

// Kind implements Layer.
func (b *Base) Kind() string { return "base" }

// Mapping selects what a Depth layer measures distance from.
type Mapping int

const (
	// MappingVector measures from the world position to Origin.
	MappingVector Mapping = iota
	// MappingCamera measures from the world position to the eye.
	MappingCamera
	// MappingLocal measures from the object-space position to Origin.
	MappingLocal
)

var mappingNames = [...]string{
	MappingVector: "vector",
	MappingCamera: "camera",
	MappingLocal:  "local",
}

func (m Mapping) String() string {
	if m < 0 || int(m) >= len(mappingNames) {
		return fmt.Sprintf("Mapping(%d)", int(m))
	}
	return mappingNames[m]
}

// ParseMapping parses a depth mapping name. The empty string is MappingVector.
func ParseMapping(s string) (Mapping, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MappingVector, nil
	}
	for i, name := range mappingNames {
		if name == s {
			return Mapping(i), nil
		}
	}
	return MappingVector, fmt.Errorf("%w %q", ErrUnknownMapping, s)
}

// Depth is a gradient from ColorA at distance Near to ColorB at
// distance Far. Origin is the reference point; it is the one layer
// parameter that animation code mutates between frames.
type Depth struct {
	ColorA  logoscene.RGBA
	ColorB  logoscene.RGBA
	Alpha   float64
	Mode    Mode
	Near    float64
	Far     float64
	Origin  mgl64.Vec3
	Mapping Mapping
}

// Factor returns the normalized depth t in [0, 1] for distance dist.
func (d *Depth) Factor(dist float64) float64 {
	span := d.Far - d.Near
	if span == 0 {
		if dist < d.Near {
			return 0
		}
		return 1
	}
	return clamp01((dist - d.Near) / span)
}

// Evaluate implements Layer.
func (d *Depth) Evaluate(s *Surface) (logoscene.RGBA, float64) {
	var dist float64
	switch d.Mapping {
	case MappingCamera:
		dist = s.Position.Sub(s.Eye).Len()
	case MappingLocal:
		dist = s.Local.Sub(d.Origin).Len()
	default:
		dist = s.Position.Sub(d.Origin).Len()
	}
	return d.ColorB.Lerp(d.ColorA, 1-d.Factor(dist)), d.Alpha
}

// BlendMode implements Layer.
func (d *Depth) BlendMode() Mode { return d.Mode }

// Kind implements Layer.
func (d *Depth) Kind() string { return "depth" }

// Fresnel is a rim layer: strongest where the surface is seen edge-on.
type Fresnel struct {
	Color     logoscene.RGBA
	Alpha     float64
	Mode      Mode
	Intensity float64
	Power     float64
	Bias      float64
}

// Factor returns bias + intensity * (1 - max(N·V, 0))^power, clamped to [0, 1].
func (f *Fresnel) Factor(s *Surface) float64 {
	ndv := math.Max(s.Normal.Dot(s.View), 0)
	return clamp01(f.Bias + f.Intensity*math.Pow(1-ndv, f.Power))
}

// Evaluate implements Layer.
func (f *Fresnel) Evaluate(s *Surface) (logoscene.RGBA, float64) {
	c := f.Color.Scale(f.Factor(s))
	c.A = 1
	return c, f.Alpha
}

// BlendMode implements Layer.
func (f *Fresnel) BlendMode() Mode { return f.Mode }

// Kind implements Layer.
func (f *Fresnel) Kind() string { return "fresnel" }
