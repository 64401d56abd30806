package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/geometry"
	"github.com/gogpu/logoscene/material"
)

// Validate checks the parts of the configuration that do not need
// parsing. Build calls it first.
func (c Config) Validate() error {
	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		return fmt.Errorf("camera: fov %v outside (0, 180)", cam.FOV)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("camera: need 0 < near < far, got near %v far %v", cam.Near, cam.Far)
	}
	if c.Background.Scale <= 0 {
		return errors.New("background: scale must be positive")
	}
	if c.Logo.Scale <= 0 {
		return errors.New("logo: scale must be positive")
	}
	if err := c.Background.Sphere.Validate(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if err := c.Logo.Knot.Validate(); err != nil {
		return fmt.Errorf("logo: %w", err)
	}
	if err := c.Droplet.Sphere.Validate(); err != nil {
		return fmt.Errorf("droplet: %w", err)
	}
	d := c.Droplet
	if d.Transmission < 0 || d.Transmission > 1 {
		return fmt.Errorf("droplet: transmission %v outside [0, 1]", d.Transmission)
	}
	if d.Roughness < 0 || d.Roughness > 1 {
		return fmt.Errorf("droplet: roughness %v outside [0, 1]", d.Roughness)
	}
	if d.Thickness < 0 {
		return fmt.Errorf("droplet: negative thickness %v", d.Thickness)
	}
	if d.IOR < 1 {
		return fmt.Errorf("droplet: ior %v below 1", d.IOR)
	}
	if c.Lights.Ambient < 0 {
		return fmt.Errorf("lights: negative ambient %v", c.Lights.Ambient)
	}
	for i, p := range c.Lights.Points {
		if p.Intensity < 0 || p.Decay < 0 || p.Distance < 0 {
			return fmt.Errorf("lights: point %d: negative intensity, distance or decay", i)
		}
	}
	if n := len(c.Background.Layers); n < MinLayers || n > MaxLayers {
		return fmt.Errorf("background: %d layers, want %d to %d", n, MinLayers, MaxLayers)
	}
	if n := len(c.Logo.Layers); n < MinLayers || n > MaxLayers {
		return fmt.Errorf("logo: %d layers, want %d to %d", n, MinLayers, MaxLayers)
	}
	return nil
}

// Layer count bounds for the background and logo stacks.
const (
	MinLayers = 2
	MaxLayers = 4
)

// Build composes the scene described by cfg. Meshes come from the shared
// geometry cache, so building the same configuration twice tessellates
// once.
func Build(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	pal, err := logoscene.ParsePalette(cfg.Palette.Base, cfg.Palette.ColorA, cfg.Palette.ColorB)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	env, err := NewEnvironment(cfg.Environment.Preset)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	bg, err := buildBackground(cfg.Background, pal)
	if err != nil {
		return nil, fmt.Errorf("scene: background: %w", err)
	}
	logo, err := buildLogo(cfg.Logo, pal)
	if err != nil {
		return nil, fmt.Errorf("scene: logo: %w", err)
	}
	drop := buildDroplet(cfg.Droplet)

	lights := make([]material.PointLight, 0, len(cfg.Lights.Points))
	for i, pc := range cfg.Lights.Points {
		col, err := resolveColor(pc.Color, pal)
		if err != nil {
			return nil, fmt.Errorf("scene: light %d: %w", i, err)
		}
		lights = append(lights, material.PointLight{
			Position:  pc.Position,
			Color:     col,
			Intensity: pc.Intensity,
			Distance:  pc.Distance,
			Decay:     pc.Decay,
		})
	}

	cam := NewCamera(cfg.Camera.Position)
	cam.FOV = cfg.Camera.FOV
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far
	controls := NewOrbitControls(cam)
	controls.EnableZoom = cfg.Camera.EnableZoom

	a := cfg.Lights.Ambient
	s := &Scene{
		Nodes:        []*Node{bg, logo, drop},
		Camera:       cam,
		Controls:     controls,
		Ambient:      logoscene.RGB(a, a, a),
		Lights:       lights,
		Environment:  env,
		EnvIntensity: cfg.Environment.Intensity,
	}
	logoscene.Logger().Debug("scene built",
		"nodes", len(s.Nodes),
		"logo_triangles", logo.Mesh.TriangleCount(),
		"environment", env.Preset)
	return s, nil
}

// buildStack builds a layered material. An empty side selects def.
func buildStack(name, side, lighting string, def material.Side, layers []material.Layer) (*material.Stack, error) {
	sd := def
	if side != "" {
		var err error
		if sd, err = material.ParseSide(side); err != nil {
			return nil, err
		}
	}
	lm, err := material.ParseLighting(lighting)
	if err != nil {
		return nil, err
	}
	m := material.NewStack(name, sd, layers...)
	m.Lighting = lm
	return m, nil
}

func buildBackground(bc BackgroundConfig, pal logoscene.Palette) (*Node, error) {
	layers, _, err := buildLayers(bc.Layers, pal)
	if err != nil {
		return nil, err
	}
	m, err := buildStack(BackgroundName, bc.Side, bc.Lighting, material.SideBack, layers)
	if err != nil {
		return nil, err
	}
	return &Node{
		Name:              BackgroundName,
		Mesh:              geometry.Get(bc.Sphere),
		Material:          m,
		Transform:         UniformScale(bc.Scale),
		ExcludeFromExport: true,
		Updater:           &Tumble{Rate: bc.Rate},
	}, nil
}

func buildLogo(lc LogoConfig, pal logoscene.Palette) (*Node, error) {
	layers, tracked, err := buildLayers(lc.Layers, pal)
	if err != nil {
		return nil, err
	}
	m, err := buildStack(LogoName, lc.Side, lc.Lighting, material.SideFront, layers)
	if err != nil {
		return nil, err
	}
	t := UniformScale(lc.Scale)
	t.Rotation.Y = lc.RotationY
	return &Node{
		Name:      LogoName,
		Mesh:      geometry.Get(lc.Knot),
		Material:  m,
		Transform: t,
		Updater:   &LogoSpin{Rate: lc.Rate, Gradient: tracked},
	}, nil
}

func buildDroplet(dc DropletConfig) *Node {
	m := material.NewPhysical(DropletName)
	m.Transmission = dc.Transmission
	m.Thickness = dc.Thickness
	m.Roughness = dc.Roughness
	m.IOR = dc.IOR
	return &Node{
		Name:      DropletName,
		Mesh:      geometry.Get(dc.Sphere),
		Material:  m,
		Transform: Identity(),
	}
}

// LogoRotation returns the logo's Z rotation, or NaN when the scene has
// no logo.
func (s *Scene) LogoRotation() float64 {
	if n := s.Node(LogoName); n != nil {
		return n.Transform.Rotation.Z
	}
	return math.NaN()
}

// PointerGradient returns the logo's pointer-driven depth layer, or nil.
func (s *Scene) PointerGradient() *material.Depth {
	n := s.Node(LogoName)
	if n == nil {
		return nil
	}
	if spin, ok := n.Updater.(*LogoSpin); ok {
		return spin.Gradient
	}
	return nil
}

