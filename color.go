package logoscene

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Shading math may temporarily
// push components outside that range; they are clamped on output.
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
// Malformed input yields opaque black; use ParseColor to detect errors.
func Hex(hex string) RGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseColor parses a CSS-style color: a hex string or one of the
// named colors in NamedColors (case-insensitive).
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := NamedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	return parseHexColor(s)
}

func parseHexColor(hex string) (RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	}
	if !ok {
		return Black, fmt.Errorf("invalid color %q", hex)
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// parseHex accumulates hex digits of s into val. It reports false on
// the first non-hex character.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Hex returns the color as "#rrggbb". Alpha is dropped.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(clamp255(math.Round(c.R*255))),
		uint8(clamp255(math.Round(c.G*255))),
		uint8(clamp255(math.Round(c.B*255))))
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Scale multiplies the color channels by s. Alpha is unchanged.
func (c RGBA) Scale(s float64) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Add adds the color channels of other. Alpha is unchanged.
func (c RGBA) Add(other RGBA) RGBA {
	return RGBA{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B, A: c.A}
}

// Mul multiplies channels component-wise. Alpha is unchanged.
func (c RGBA) Mul(other RGBA) RGBA {
	return RGBA{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B, A: c.A}
}

// Clamp restricts every component to [0, 1].
func (c RGBA) Clamp() RGBA {
	return RGBA{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
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

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)

// NamedColors maps the CSS color keywords accepted by ParseColor.
var NamedColors = map[string]RGBA{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       RGB(0, 128.0/255, 0),
	"lime":        Green,
	"blue":        Blue,
	"yellow":      RGB(1, 1, 0),
	"cyan":        RGB(0, 1, 1),
	"magenta":     RGB(1, 0, 1),
	"gray":        RGB(128.0/255, 128.0/255, 128.0/255),
	"hotpink":     RGB(1, 105.0/255, 180.0/255),
	"transparent": Transparent,
}
