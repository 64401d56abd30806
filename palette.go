package logoscene

import "fmt"

// Palette is the small set of colors shared by every material in the
// scene. It is built once and passed by value, so it is immutable for
// the lifetime of a scene.
type Palette struct {
	Base   RGBA
	ColorA RGBA
	ColorB RGBA
}

// DefaultPalette returns the cyan/blue logo palette
// {base: #61dafb, colorA: #61dafb, colorB: #0070ff}.
func DefaultPalette() Palette {
	return Palette{
		Base:   Hex("#61dafb"),
		ColorA: Hex("#61dafb"),
		ColorB: Hex("#0070ff"),
	}
}

// ParsePalette builds a Palette from three color strings accepted by ParseColor.
func ParsePalette(base, colorA, colorB string) (Palette, error) {
	var p Palette
	var err error
	if p.Base, err = ParseColor(base); err != nil {
		return Palette{}, fmt.Errorf("palette base: %w", err)
	}
	if p.ColorA, err = ParseColor(colorA); err != nil {
		return Palette{}, fmt.Errorf("palette colorA: %w", err)
	}
	if p.ColorB, err = ParseColor(colorB); err != nil {
		return Palette{}, fmt.Errorf("palette colorB: %w", err)
	}
	return p, nil
}
