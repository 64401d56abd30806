package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/geometry"
	"github.com/gogpu/logoscene/material"
)

// Config is the typed description of the whole scene. It is validated
// once, by Build.
//
// Layer colors are strings: any color accepted by logoscene.ParseColor,
// or a palette reference "@base", "@colorA" or "@colorB".
type Config struct {
	Palette     PaletteConfig    `toml:"palette"`
	Camera      CameraConfig     `toml:"camera"`
	Background  BackgroundConfig `toml:"background"`
	Logo        LogoConfig       `toml:"logo"`
	Droplet     DropletConfig    `toml:"droplet"`
	Lights      LightsConfig     `toml:"lights"`
	Environment EnvConfig        `toml:"environment"`
}

// PaletteConfig holds the three palette colors.
type PaletteConfig struct {
	Base   string `toml:"base"`
	ColorA string `toml:"color_a"`
	ColorB string `toml:"color_b"`
}

// CameraConfig configures the perspective camera and orbit controls.
type CameraConfig struct {
	FOV        float64    `toml:"fov"`
	Near       float64    `toml:"near"`
	Far        float64    `toml:"far"`
	Position   [3]float64 `toml:"position"`
	EnableZoom bool       `toml:"enable_zoom"`
}

// LayerConfig describes one material layer.
type LayerConfig struct {
	Kind      string     `toml:"kind"` // base, depth or fresnel
	Mode      string     `toml:"mode"`
	Color     string     `toml:"color,omitempty"`
	ColorA    string     `toml:"color_a,omitempty"`
	ColorB    string     `toml:"color_b,omitempty"`
	Alpha     *float64   `toml:"alpha,omitempty"` // nil means 1
	Near      float64    `toml:"near,omitempty"`
	Far       float64    `toml:"far,omitempty"`
	Origin    [3]float64 `toml:"origin,omitempty"`
	Mapping   string     `toml:"mapping,omitempty"`
	Intensity float64    `toml:"intensity,omitempty"`
	Power     float64    `toml:"power,omitempty"`
	Bias      float64    `toml:"bias,omitempty"`
	// Pointer makes a depth layer's origin follow the pointer.
	Pointer bool `toml:"pointer,omitempty"`
}

// BackgroundConfig configures the inverted background sphere.
type BackgroundConfig struct {
	Sphere geometry.Sphere `toml:"sphere"`
	Scale  float64         `toml:"scale"`
	// Rate is the tumble speed in radians per second.
	Rate     float64       `toml:"rate"`
	Side     string        `toml:"side"`     // empty means back
	Lighting string        `toml:"lighting"` // basic or lambert
	Layers   []LayerConfig `toml:"layers"`
}

// LogoConfig configures the torus-knot logo.
type LogoConfig struct {
	Knot      geometry.TorusKnot `toml:"knot"`
	Scale     float64            `toml:"scale"`
	RotationY float64            `toml:"rotation_y"`
	// Rate is the spin speed around local Z in radians per second.
	Rate     float64       `toml:"rate"`
	Side     string        `toml:"side"`     // empty means front
	Lighting string        `toml:"lighting"` // basic or lambert
	Layers   []LayerConfig `toml:"layers"`
}

// DropletConfig configures the transmissive droplet.
type DropletConfig struct {
	Sphere       geometry.Sphere `toml:"sphere"`
	Transmission float64         `toml:"transmission"`
	Thickness    float64         `toml:"thickness"`
	Roughness    float64         `toml:"roughness"`
	IOR          float64         `toml:"ior"`
}

// PointLightConfig configures one point light.
type PointLightConfig struct {
	Position  [3]float64 `toml:"position"`
	Color     string     `toml:"color"`
	Intensity float64    `toml:"intensity"`
	Distance  float64    `toml:"distance"` // cutoff range, 0 means unlimited
	Decay     float64    `toml:"decay"`
}

// LightsConfig configures ambient and point lights.
type LightsConfig struct {
	Ambient float64            `toml:"ambient"`
	Points  []PointLightConfig `toml:"points"`
}

// EnvConfig selects the image-based lighting environment.
type EnvConfig struct {
	Preset    string  `toml:"preset"`
	Intensity float64 `toml:"intensity"`
}

func alpha(a float64) *float64 { return &a }

// DefaultConfig returns the reference scene.
func DefaultConfig() Config {
	return Config{
		Palette: PaletteConfig{Base: "#61dafb", ColorA: "#61dafb", ColorB: "#0070ff"},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{5, 0, 0},
		},
		Background: BackgroundConfig{
			Sphere: geometry.Sphere{Radius: 1, WidthSegments: 64, HeightSegments: 64},
			Scale:    100,
			Rate:     0.5,
			Side:     "back",
			Lighting: "basic",
			Layers: []LayerConfig{
				{Kind: "base", Mode: "normal", Color: "@base", Alpha: alpha(1)},
				{Kind: "depth", Mode: "normal", ColorA: "@colorB", ColorB: "@colorA", Alpha: alpha(0.5),
					Near: 0, Far: 300, Origin: [3]float64{100, 100, 100}},
			},
		},
		Logo: LogoConfig{
			Knot:      geometry.LogoKnot,
			Scale:     2,
			RotationY: math.Pi / 2,
			Rate:      0.5,
			Side:      "front",
			Lighting:  "basic",
			Layers: []LayerConfig{
				{Kind: "base", Mode: "normal", Color: "@base", Alpha: alpha(1)},
				{Kind: "depth", Mode: "normal", ColorA: "@colorB", ColorB: "@colorA", Alpha: alpha(0.5),
					Near: 0, Far: 3, Origin: [3]float64{1, 1, 1}},
				{Kind: "depth", Mode: "lighten", ColorA: "@colorB", ColorB: "black", Alpha: alpha(1),
					Near: 0.25, Far: 2, Origin: [3]float64{1, 0, 0}, Pointer: true},
				{Kind: "fresnel", Mode: "softlight", Color: "white", Alpha: alpha(1),
					Intensity: 0.3, Power: 2, Bias: 0},
			},
		},
		Droplet: DropletConfig{
			Sphere:       geometry.Sphere{Radius: 0.2, WidthSegments: 64, HeightSegments: 64},
			Transmission: 1,
			Thickness:    10,
			Roughness:    0.65,
			IOR:          1.5,
		},
		Lights: LightsConfig{
			Ambient: 0.4,
			Points: []PointLightConfig{
				{Position: [3]float64{10, 10, 5}, Color: "white", Intensity: 1},
				{Position: [3]float64{-10, -10, -5}, Color: "@colorA", Intensity: 1},
			},
		},
		Environment: EnvConfig{Preset: "warehouse", Intensity: 1},
	}
}

// resolveColor parses a layer color against the palette.
func resolveColor(s string, p logoscene.Palette) (logoscene.RGBA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "@base":
		return p.Base, nil
	case "@colora":
		return p.ColorA, nil
	case "@colorb":
		return p.ColorB, nil
	}
	return logoscene.ParseColor(s)
}

// buildLayer turns a LayerConfig into a material layer.
func buildLayer(lc LayerConfig, p logoscene.Palette) (material.Layer, error) {
	mode, err := material.ParseMode(lc.Mode)
	if err != nil {
		return nil, err
	}
	a := 1.0
	if lc.Alpha != nil {
		a = *lc.Alpha
	}
	if a < 0 || a > 1 || math.IsNaN(a) {
		return nil, fmt.Errorf("alpha %v outside [0, 1]", a)
	}

	switch strings.ToLower(strings.TrimSpace(lc.Kind)) {
	case "base":
		c, err := resolveColor(lc.Color, p)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		return &material.Base{Color: c, Alpha: a, Mode: mode}, nil

	case "depth":
		ca, err := resolveColor(lc.ColorA, p)
		if err != nil {
			return nil, fmt.Errorf("colorA: %w", err)
		}
		cb, err := resolveColor(lc.ColorB, p)
		if err != nil {
			return nil, fmt.Errorf("colorB: %w", err)
		}
		mapping, err := material.ParseMapping(lc.Mapping)
		if err != nil {
			return nil, err
		}
		return &material.Depth{
			ColorA:  ca,
			ColorB:  cb,
			Alpha:   a,
			Mode:    mode,
			Near:    lc.Near,
			Far:     lc.Far,
			Origin:  lc.Origin,
			Mapping: mapping,
		}, nil

	case "fresnel":
		c, err := resolveColor(lc.Color, p)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		return &material.Fresnel{
			Color:     c,
			Alpha:     a,
			Mode:      mode,
			Intensity: lc.Intensity,
			Power:     lc.Power,
			Bias:      lc.Bias,
		}, nil
	}
	return nil, fmt.Errorf("%w %q", material.ErrUnknownKind, lc.Kind)
}

// buildLayers builds a layer list and returns the pointer-driven depth
// layer, if any. At most one layer may follow the pointer.
func buildLayers(lcs []LayerConfig, p logoscene.Palette) ([]material.Layer, *material.Depth, error) {
	layers := make([]material.Layer, 0, len(lcs))
	var tracked *material.Depth
	for i, lc := range lcs {
		l, err := buildLayer(lc, p)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, lc.Kind, err)
		}
		if lc.Pointer {
			d, ok := l.(*material.Depth)
			if !ok {
				return nil, nil, fmt.Errorf("layer %d: only depth layers can follow the pointer", i)
			}
			if tracked != nil {
				return nil, nil, fmt.Errorf("layer %d: %w", i, errors.New("more than one pointer-driven layer"))
			}
			tracked = d
		}
		layers = append(layers, l)
	}
	return layers, tracked, nil
}
