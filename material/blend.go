package material

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/logoscene"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized blend mode name.
var ErrUnknownMode = errors.New("unknown blend mode")

// Mode is a separable blend mode used to composite a layer onto the
// color accumulated by the layers below it.
type Mode int

const (
	// ModeNormal replaces the destination with the source.
	ModeNormal Mode = iota
	// ModeAdd adds source to destination, clamped to 1.
	ModeAdd
	// ModeSubtract subtracts source from destination, clamped to 0.
	ModeSubtract
	// ModeMultiply multiplies source and destination.
	ModeMultiply
	// ModeScreen is the inverse of multiplying the inverses.
	ModeScreen
	// ModeOverlay multiplies or screens depending on the destination.
	ModeOverlay
	// ModeDarken keeps the darker of source and destination.
	ModeDarken
	// ModeLighten keeps the lighter of source and destination.
	ModeLighten
	// ModeSoftLight darkens or lightens depending on the source.
	ModeSoftLight
	// ModeDifference is the absolute difference.
	ModeDifference
	// ModeExclusion is like difference with lower contrast.
	ModeExclusion
)

var modeNames = [...]string{
	ModeNormal:     "normal",
	ModeAdd:        "add",
	ModeSubtract:   "subtract",
	ModeMultiply:   "multiply",
	ModeScreen:     "screen",
	ModeOverlay:    "overlay",
	ModeDarken:     "darken",
	ModeLighten:    "lighten",
	ModeSoftLight:  "softlight",
	ModeDifference: "difference",
	ModeExclusion:  "exclusion",
}

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a blend mode name, ignoring case.
// The empty string is ModeNormal.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeNormal, nil
	}
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeNormal, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// blendChannel applies mode to one channel. d is the destination
// (accumulated) value and s the source (layer) value, both in [0, 1].
func blendChannel(mode Mode, d, s float64) float64 {
	switch mode {
	case ModeAdd:
		return math.Min(d+s, 1)
	case ModeSubtract:
		return math.Max(d-s, 0)
	case ModeMultiply:
		return d * s
	case ModeScreen:
		return 1 - (1-d)*(1-s)
	case ModeOverlay:
		if d < 0.5 {
			return 2 * d * s
		}
		return 1 - 2*(1-d)*(1-s)
	case ModeDarken:
		return math.Min(d, s)
	case ModeLighten:
		return math.Max(d, s)
	case ModeSoftLight:
		if s < 0.5 {
			return 2*d*s + d*d*(1-2*s)
		}
		return math.Sqrt(math.Max(d, 0))*(2*s-1) + 2*d*(1-s)
	case ModeDifference:
		return math.Abs(d - s)
	case ModeExclusion:
		return d + s - 2*d*s
	default:
		return s
	}
}

// Blend composites src onto dst with the given mode and opacity:
// each channel becomes mix(dst, B(dst, src), opacity). The result alpha
// is src-over of opacity onto dst.A.
func Blend(mode Mode, dst, src logoscene.RGBA, opacity float64) logoscene.RGBA {
	mix := func(d, s float64) float64 {
		return d + (blendChannel(mode, d, s)-d)*opacity
	}
	return logoscene.RGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: opacity + dst.A*(1-opacity),
	}
}
