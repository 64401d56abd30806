package material

import (
	"fmt"
	"strings"

	"github.com/gogpu/logoscene"
)

// LightingModel selects how scene lights affect a Stack.
type LightingModel int

const (
	// LightingBasic is unlit: the composited color is the output.
	LightingBasic LightingModel = iota
	// LightingLambert multiplies the composited color by diffuse irradiance.
	LightingLambert
)

// ParseLighting parses "basic" or "lambert". The empty string is LightingBasic.
func ParseLighting(s string) (LightingModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic":
		return LightingBasic, nil
	case "lambert":
		return LightingLambert, nil
	}
	return LightingBasic, fmt.Errorf("unknown lighting model %q", s)
}

// Stack is a layered material. Shading starts from Color/Alpha and
// composites each layer in declaration order with its blend mode.
type Stack struct {
	Name     string
	Color    logoscene.RGBA
	Alpha    float64
	Layers   []Layer
	Lighting LightingModel
	side     Side
}

// NewStack creates a stack starting from opaque white.
func NewStack(name string, side Side, layers ...Layer) *Stack {
	return &Stack{
		Name:   name,
		Color:  logoscene.White,
		Alpha:  1,
		Layers: layers,
		side:   side,
	}
}

// Side implements Material.
func (m *Stack) Side() Side { return m.side }

// Shade implements Material.
func (m *Stack) Shade(s *Surface) logoscene.RGBA {
	acc := m.Color
	acc.A = m.Alpha
	for _, l := range m.Layers {
		c, a := l.Evaluate(s)
		acc = Blend(l.BlendMode(), acc, c, a)
	}
	if m.Lighting == LightingLambert {
		e := s.Lighting.Irradiance(s.Position, s.Normal)
		acc = logoscene.RGBA{R: acc.R * e.R, G: acc.G * e.G, B: acc.B * e.B, A: acc.A}
	}
	return acc.Clamp()
}

// Flat implements Flattener: the color of the first Base layer, or the
// stack color when there is none.
func (m *Stack) Flat() *Flat {
	c := m.Color
	for _, l := range m.Layers {
		if b, ok := l.(*Base); ok {
			c = b.Color
			break
		}
	}
	return &Flat{Name: m.Name, Color: c}
}

// Depths returns the Depth layers in declaration order.
func (m *Stack) Depths() []*Depth {
	var out []*Depth
	for _, l := range m.Layers {
		if d, ok := l.(*Depth); ok {
			out = append(out, d)
		}
	}
	return out
}
