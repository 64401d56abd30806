package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
)

// ErrUnknownPreset is returned for an environment preset name that does
// not exist.
var ErrUnknownPreset = errors.New("unknown environment preset")

// panel is an area light baked into an environment: a bright disc of
// the sky around Dir.
type panel struct {
	Dir   mgl64.Vec3
	Cos   float64 // cosine of the angular radius
	Color logoscene.RGBA
}

// Environment is a procedural image-based lighting environment: a
// ground/horizon/sky gradient plus a few bright panels.
type Environment struct {
	Preset  string
	Sky     logoscene.RGBA
	Horizon logoscene.RGBA
	Ground  logoscene.RGBA
	panels  []panel
}

func dir(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x, y, z}.Normalize() }

func rgb(hex string, k float64) logoscene.RGBA { return logoscene.Hex(hex).Scale(k) }

var presets = map[string]Environment{
	"warehouse": {
		Sky: rgb("#8a8478", 1), Horizon: rgb("#5c574e", 1), Ground: rgb("#2b2925", 1),
		panels: []panel{
			{dir(0.3, 1, 0.2), 0.985, rgb("#fff4e0", 3)},
			{dir(-0.4, 1, -0.3), 0.985, rgb("#fff4e0", 3)},
			{dir(0.9, 0.35, -0.2), 0.97, rgb("#dfe8ff", 1.5)},
			{dir(-0.8, 0.3, 0.5), 0.97, rgb("#dfe8ff", 1.5)},
		},
	},
	"studio": {
		Sky: rgb("#c8c8c8", 1), Horizon: rgb("#9a9a9a", 1), Ground: rgb("#3c3c3c", 1),
		panels: []panel{
			{dir(1, 1, 1), 0.95, rgb("#ffffff", 2.5)},
			{dir(-1, 0.5, 1), 0.96, rgb("#ffffff", 1.5)},
		},
	},
	"sunset": {
		Sky: rgb("#3b4b7a", 1), Horizon: rgb("#ff8a4c", 1.2), Ground: rgb("#2a1d1a", 1),
		panels: []panel{{dir(1, 0.08, 0), 0.998, rgb("#ffd08a", 8)}},
	},
	"dawn": {
		Sky: rgb("#6d83b3", 1), Horizon: rgb("#f2b38e", 1), Ground: rgb("#3a3430", 1),
		panels: []panel{{dir(-1, 0.12, 0.3), 0.998, rgb("#ffe2b8", 6)}},
	},
	"night": {
		Sky: rgb("#05070f", 1), Horizon: rgb("#11182b", 1), Ground: rgb("#030303", 1),
		panels: []panel{{dir(0.2, 0.9, -0.4), 0.9995, rgb("#d8e2ff", 4)}},
	},
	"city": {
		Sky: rgb("#9fb7d6", 1), Horizon: rgb("#c9c2b6", 1), Ground: rgb("#4a4a4f", 1),
		panels: []panel{
			{dir(0.5, 1, 0.4), 0.996, rgb("#fff8e8", 6)},
			{dir(-1, 0.1, 0), 0.9, rgb("#a8b4c8", 1.2)},
		},
	},
	"forest": {
		Sky: rgb("#a6c48a", 1), Horizon: rgb("#56703d", 1), Ground: rgb("#25301b", 1),
		panels: []panel{{dir(0.2, 1, 0.1), 0.99, rgb("#fdf6d2", 3)}},
	},
	"apartment": {
		Sky: rgb("#d9cbb8", 1), Horizon: rgb("#a38f77", 1), Ground: rgb("#4d3f33", 1),
		panels: []panel{{dir(1, 0.3, 0.2), 0.95, rgb("#fff3dc", 2.5)}},
	},
	"lobby": {
		Sky: rgb("#c4b59c", 1), Horizon: rgb("#8c7c64", 1), Ground: rgb("#3d352a", 1),
		panels: []panel{
			{dir(0, 1, 0), 0.97, rgb("#fff1d6", 2.5)},
			{dir(0.7, 0.6, 0.7), 0.985, rgb("#fff1d6", 2)},
		},
	},
	"park": {
		Sky: rgb("#86b3e8", 1), Horizon: rgb("#cfe0ee", 1), Ground: rgb("#4f6b32", 1),
		panels: []panel{{dir(0.4, 0.8, -0.3), 0.999, rgb("#fffbe6", 10)}},
	},
}

// Presets returns the available environment preset names, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEnvironment returns the named preset.
func NewEnvironment(preset string) (*Environment, error) {
	name := strings.ToLower(strings.TrimSpace(preset))
	env, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownPreset, preset, strings.Join(Presets(), ", "))
	}
	env.Preset = name
	return &env, nil
}

// Sample returns the radiance arriving from direction d.
func (e *Environment) Sample(d mgl64.Vec3) logoscene.RGBA {
	l := d.Len()
	if l == 0 {
		return e.Horizon
	}
	d = d.Mul(1 / l)

	y := d.Y()
	var c logoscene.RGBA
	if y >= 0 {
		c = e.Horizon.Lerp(e.Sky, math.Sqrt(y))
	} else {
		c = e.Horizon.Lerp(e.Ground, math.Sqrt(-y))
	}
	for _, p := range e.panels {
		cos := d.Dot(p.Dir)
		if cos <= p.Cos {
			continue
		}
		// Soft edge over the outer half of the disc.
		w := math.Min(1, (cos-p.Cos)/((1-p.Cos)*0.5))
		c = c.Add(p.Color.Scale(w))
	}
	c.A = 1
	return c
}
