// Package material implements the surface shading used by the scene:
// a layered material stack composited per pixel with blend modes, a
// physical material with screen-space transmission, and a flat opaque
// material for export.
package material

import (
	"fmt"
	"strings"

	"github.com/gogpu/logoscene"
)

// Material shades one fragment.
type Material interface {
	Shade(s *Surface) logoscene.RGBA
	Side() Side
}

// Transmitter is implemented by materials that let the backdrop show
// through. The renderer shades them in a second pass after all opaque
// geometry.
type Transmitter interface {
	Material
	Transmissive() bool
}

// Flattener is implemented by materials that have a flat opaque variant
// for export.
type Flattener interface {
	Flat() *Flat
}

// FlatVariant returns the export-compatible variant of m.
// Materials without a variant export as white.
func FlatVariant(m Material) *Flat {
	if f, ok := m.(*Flat); ok {
		return f
	}
	if f, ok := m.(Flattener); ok {
		return f.Flat()
	}
	return &Flat{Name: "flat", Color: logoscene.White}
}

// IsTransmissive reports whether m needs the transmission pass.
func IsTransmissive(m Material) bool {
	t, ok := m.(Transmitter)
	return ok && t.Transmissive()
}

// Side selects which triangle faces a material is drawn on.
type Side int

const (
	// SideFront draws counter-clockwise (outward) faces.
	SideFront Side = iota
	// SideBack draws clockwise faces: the inside of closed meshes.
	SideBack
	// SideDouble draws both.
	SideDouble
)

var sideNames = [...]string{SideFront: "front", SideBack: "back", SideDouble: "double"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// ParseSide parses "front", "back" or "double". The empty string is SideFront.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "front":
		return SideFront, nil
	case "back":
		return SideBack, nil
	case "double":
		return SideDouble, nil
	}
	return SideFront, fmt.Errorf("unknown side %q", s)
}

// Draws reports whether a face with the given orientation is visible.
func (s Side) Draws(frontFacing bool) bool {
	switch s {
	case SideBack:
		return !frontFacing
	case SideDouble:
		return true
	default:
		return frontFacing
	}
}

// Flat is an unlit single-color opaque material.
type Flat struct {
	Name  string
	Color logoscene.RGBA
}

// Shade implements Material.
func (f *Flat) Shade(*Surface) logoscene.RGBA {
	c := f.Color
	c.A = 1
	return c
}

// Side implements Material.
func (f *Flat) Side() Side { return SideFront }
