package scene

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/material"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

// vecNear compares component-wise with an absolute tolerance, so
// rounding residue next to an expected zero still matches.
func vecNear(a, b mgl64.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func mustBuild(t *testing.T, cfg Config) *Scene {
	t.Helper()
	s, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func TestBuildDefaults(t *testing.T) {
	s := mustBuild(t, DefaultConfig())

	if len(s.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(s.Nodes))
	}
	for i, name := range []string{BackgroundName, LogoName, DropletName} {
		if s.Nodes[i].Name != name {
			t.Errorf("Nodes[%d].Name = %q, want %q", i, s.Nodes[i].Name, name)
		}
	}

	bg := s.Node(BackgroundName)
	if bg.Material.Side() != material.SideBack {
		t.Errorf("background side = %v, want back", bg.Material.Side())
	}
	if !bg.ExcludeFromExport {
		t.Error("background should be excluded from export")
	}
	if bg.Transform.Scale != (mgl64.Vec3{100, 100, 100}) {
		t.Errorf("background scale = %v, want 100", bg.Transform.Scale)
	}

	logo := s.Node(LogoName)
	if logo.Material.Side() != material.SideFront {
		t.Errorf("logo side = %v, want front", logo.Material.Side())
	}
	if !near(logo.Transform.Rotation.Y, math.Pi/2) {
		t.Errorf("logo rotation.y = %v, want π/2", logo.Transform.Rotation.Y)
	}
	if stack := logo.Material.(*material.Stack); len(stack.Layers) != 4 {
		t.Errorf("logo layers = %d, want 4", len(stack.Layers))
	}

	drop := s.Node(DropletName)
	if !material.IsTransmissive(drop.Material) {
		t.Error("droplet should be transmissive")
	}

	cam := s.Camera
	if cam.FOV != 75 || cam.Near != 0.1 || cam.Far != 1000 {
		t.Errorf("camera = fov %v near %v far %v, want 75/0.1/1000", cam.FOV, cam.Near, cam.Far)
	}
	if cam.Position != (mgl64.Vec3{5, 0, 0}) {
		t.Errorf("camera position = %v, want (5,0,0)", cam.Position)
	}
	if s.Controls.EnableZoom {
		t.Error("zoom should be disabled")
	}

	if len(s.Lights) != 2 {
		t.Fatalf("len(Lights) = %d, want 2", len(s.Lights))
	}
	if s.Lights[1].Color != logoscene.Hex("#61dafb") {
		t.Errorf("second light color = %v, want colorA", s.Lights[1].Color)
	}
	if !near(s.Ambient.R, 0.4) {
		t.Errorf("ambient = %v, want 0.4", s.Ambient.R)
	}
	if s.Environment.Preset != "warehouse" {
		t.Errorf("environment = %q, want warehouse", s.Environment.Preset)
	}
}

func TestLogoRotationAccumulates(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	deltas := []float64{0.016, 0.033, 0.1, 0.5, 0}

	var sum float64
	for _, d := range deltas {
		s.Advance(d, Pointer{})
		sum += d
		if got, want := s.LogoRotation(), sum/2; !near(got, want) {
			t.Fatalf("rotation.z = %v, want %v", got, want)
		}
	}
	if s.Frames() != uint64(len(deltas)) {
		t.Errorf("Frames() = %d, want %d", s.Frames(), len(deltas))
	}
	if !near(s.Elapsed(), sum) {
		t.Errorf("Elapsed() = %v, want %v", s.Elapsed(), sum)
	}
}

func TestLogoRotationFrameRateIndependent(t *testing.T) {
	fast := mustBuild(t, DefaultConfig())
	slow := mustBuild(t, DefaultConfig())

	for range 120 {
		fast.Advance(1.0/120, Pointer{})
	}
	for range 30 {
		slow.Advance(1.0/30, Pointer{})
	}
	if !near(fast.LogoRotation(), slow.LogoRotation()) {
		t.Errorf("120 fps rotation %v != 30 fps rotation %v", fast.LogoRotation(), slow.LogoRotation())
	}
	if !near(fast.LogoRotation(), 0.5) {
		t.Errorf("rotation after 1s = %v, want 0.5", fast.LogoRotation())
	}
}

func TestNegativeDeltaIsIgnored(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	f := s.Advance(-1, Pointer{})
	if f.Delta != 0 || s.LogoRotation() != 0 {
		t.Errorf("negative delta advanced the scene: delta %v rotation %v", f.Delta, s.LogoRotation())
	}
}

func TestPointerDrivesDepthOrigin(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	g := s.PointerGradient()
	if g == nil {
		t.Fatal("logo has no pointer-driven layer")
	}
	if g.Origin != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("initial origin = %v, want (1,0,0)", g.Origin)
	}

	tests := []struct {
		p    Pointer
		want mgl64.Vec3
	}{
		{Pointer{0.3, -0.4}, mgl64.Vec3{0.4, 0.3, 0}},
		{Pointer{0.3, -0.4}, mgl64.Vec3{0.4, 0.3, 0}}, // no accumulation
		{Pointer{0, 0}, mgl64.Vec3{0, 0, 0}},
		{Pointer{-1, 1}, mgl64.Vec3{-1, -1, 0}},
	}
	for _, tt := range tests {
		s.Advance(0.016, tt.p)
		if !vecNear(g.Origin, tt.want) {
			t.Errorf("pointer %v: origin = %v, want %v", tt.p, g.Origin, tt.want)
		}
	}
}

func TestBackgroundRotatesUniformly(t *testing.T) {
	for _, rate := range []float64{0.5, 0.1} {
		cfg := DefaultConfig()
		cfg.Background.Rate = rate
		s := mustBuild(t, cfg)
		bg := s.Node(BackgroundName)

		var sum float64
		for _, d := range []float64{0.02, 0.5, 0.016, 1} {
			s.Advance(d, Pointer{X: 0.9})
			sum += d
			r := bg.Transform.Rotation
			if r.X != r.Y || r.Y != r.Z {
				t.Fatalf("rate %v: rotation not uniform: %+v", rate, r)
			}
			if !near(r.X, sum*rate) {
				t.Fatalf("rate %v: rotation = %v, want %v", rate, r.X, sum*rate)
			}
		}
		if tb := bg.Updater.(*Tumble); !near(tb.Angle(), sum*rate) {
			t.Errorf("Angle() = %v, want %v", tb.Angle(), sum*rate)
		}
	}
}

func TestFirstDepthLayerSwapsPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette = PaletteConfig{Base: "#ff0000", ColorA: "#00ff00", ColorB: "#0000ff"}
	s := mustBuild(t, cfg)

	for _, name := range []string{LogoName, BackgroundName} {
		stack := s.Node(name).Material.(*material.Stack)
		depths := stack.Depths()
		if len(depths) == 0 {
			t.Fatalf("%s: no depth layers", name)
		}
		d := depths[0]
		if d.ColorA != logoscene.Hex("#0000ff") || d.ColorB != logoscene.Hex("#00ff00") {
			t.Errorf("%s: first depth = (%s, %s), want (colorB, colorA)", name, d.ColorA.Hex(), d.ColorB.Hex())
		}
		if stack.Flat().Color != logoscene.Hex("#ff0000") {
			t.Errorf("%s: flat color = %s, want base", name, stack.Flat().Color.Hex())
		}
	}

	// The logo's second gradient runs from colorB to black and is the one
	// that follows the pointer.
	depths := s.Node(LogoName).Material.(*material.Stack).Depths()
	if len(depths) != 2 {
		t.Fatalf("logo depth layers = %d, want 2", len(depths))
	}
	second := depths[1]
	if second.ColorA != logoscene.Hex("#0000ff") || second.ColorB != logoscene.Black {
		t.Errorf("second depth = (%s, %s), want (colorB, black)", second.ColorA.Hex(), second.ColorB.Hex())
	}
	if s.PointerGradient() != second {
		t.Error("pointer does not drive the second gradient")
	}
}

func TestBuildSideAndLighting(t *testing.T) {
	tests := []struct {
		name         string
		bgSide       string
		logoSide     string
		logoLighting string
		wantBg       material.Side
		wantLogo     material.Side
		wantLighting material.LightingModel
	}{
		{"defaults", "back", "front", "basic", material.SideBack, material.SideFront, material.LightingBasic},
		{"empty keeps node default", "", "", "", material.SideBack, material.SideFront, material.LightingBasic},
		{"double sided lambert logo", "double", "Double", "lambert", material.SideDouble, material.SideDouble, material.LightingLambert},
		{"front background", "front", "back", "basic", material.SideFront, material.SideBack, material.LightingBasic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Background.Side = tt.bgSide
			cfg.Logo.Side = tt.logoSide
			cfg.Logo.Lighting = tt.logoLighting
			s := mustBuild(t, cfg)

			if got := s.Node(BackgroundName).Material.Side(); got != tt.wantBg {
				t.Errorf("background side = %v, want %v", got, tt.wantBg)
			}
			logo := s.Node(LogoName).Material.(*material.Stack)
			if logo.Side() != tt.wantLogo {
				t.Errorf("logo side = %v, want %v", logo.Side(), tt.wantLogo)
			}
			if logo.Lighting != tt.wantLighting {
				t.Errorf("logo lighting = %v, want %v", logo.Lighting, tt.wantLighting)
			}
		})
	}
}

func TestBuildPointLightDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lights.Points[0].Distance = 8
	s := mustBuild(t, cfg)
	if got := s.Lights[0].Distance; got != 8 {
		t.Fatalf("Distance = %v, want 8", got)
	}
	if s.Lights[1].Distance != 0 {
		t.Errorf("second light Distance = %v, want 0", s.Lights[1].Distance)
	}
	// (10,10,5) is 15 units from the origin, past the cutoff.
	if _, c := s.Lights[0].Radiance(mgl64.Vec3{}); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("radiance beyond distance = %+v, want black", c)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
		substr string
	}{
		{"unknown mode", func(c *Config) { c.Logo.Layers[0].Mode = "burn" }, material.ErrUnknownMode, ""},
		{"unknown kind", func(c *Config) { c.Logo.Layers[1].Kind = "noise" }, material.ErrUnknownKind, ""},
		{"unknown mapping", func(c *Config) { c.Background.Layers[1].Mapping = "uv" }, material.ErrUnknownMapping, ""},
		{"unknown preset", func(c *Config) { c.Environment.Preset = "moon" }, ErrUnknownPreset, ""},
		{"zero segments", func(c *Config) { c.Background.Sphere.WidthSegments = 0 }, nil, "segments"},
		{"knot tube", func(c *Config) { c.Logo.Knot.Tube = 0 }, nil, "logo"},
		{"alpha above one", func(c *Config) { a := 1.5; c.Logo.Layers[0].Alpha = &a }, nil, "alpha"},
		{"bad color", func(c *Config) { c.Palette.ColorA = "#zz" }, nil, "color"},
		{"bad layer color", func(c *Config) { c.Logo.Layers[2].ColorB = "not-a-color" }, nil, "colorB"},
		{"fov", func(c *Config) { c.Camera.FOV = 0 }, nil, "fov"},
		{"near far", func(c *Config) { c.Camera.Far = 0.05 }, nil, "near"},
		{"roughness", func(c *Config) { c.Droplet.Roughness = 2 }, nil, "roughness"},
		{"two pointer layers", func(c *Config) { c.Logo.Layers[1].Pointer = true }, nil, "pointer"},
		{"pointer on fresnel", func(c *Config) {
			c.Logo.Layers[2].Pointer = false
			c.Logo.Layers[3].Pointer = true
		}, nil, "depth"},
		{"no logo layers", func(c *Config) { c.Logo.Layers = nil }, nil, "0 layers"},
		{"one background layer", func(c *Config) { c.Background.Layers = c.Background.Layers[:1] }, nil, "1 layers"},
		{"eight background layers", func(c *Config) {
			c.Background.Layers = append(c.Background.Layers, c.Background.Layers...)
			c.Background.Layers = append(c.Background.Layers, c.Background.Layers...)
		}, nil, "8 layers"},
		{"unknown side", func(c *Config) { c.Background.Side = "inside" }, nil, "inside"},
		{"unknown lighting", func(c *Config) { c.Logo.Lighting = "phong" }, nil, "phong"},
		{"negative light distance", func(c *Config) { c.Lights.Points[0].Distance = -1 }, nil, "distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Build(cfg)
			if err == nil {
				t.Fatal("Build() succeeded, want error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v does not wrap %v", err, tt.target)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestAlphaDefaultsToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logo.Layers[0].Alpha = nil
	s := mustBuild(t, cfg)
	base := s.Node(LogoName).Material.(*material.Stack).Layers[0].(*material.Base)
	if base.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", base.Alpha)
	}
}

func TestBuildSharesMeshes(t *testing.T) {
	a := mustBuild(t, DefaultConfig())
	b := mustBuild(t, DefaultConfig())
	if a.Node(LogoName).Mesh != b.Node(LogoName).Mesh {
		t.Error("logo mesh was tessellated twice")
	}
	// Materials are per scene: updating one scene's pointer layer must not
	// leak into the other.
	a.Advance(0.1, Pointer{X: 1, Y: 1})
	if b.PointerGradient().Origin == a.PointerGradient().Origin {
		t.Error("pointer-driven layer is shared between scenes")
	}
}

func TestOrbitControlsZoomDisabled(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	before := s.Camera.Position

	s.Controls.Zoom(2)
	s.Controls.Zoom(0.25)
	if s.Camera.Position != before {
		t.Errorf("zoom moved camera from %v to %v", before, s.Camera.Position)
	}
}

func TestOrbitControlsZoomEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.EnableZoom = true
	s := mustBuild(t, cfg)

	s.Controls.Zoom(2)
	if !near(s.Camera.Distance(), 2.5) {
		t.Errorf("distance after zoom(2) = %v, want 2.5", s.Camera.Distance())
	}
}

func TestOrbitControlsRotateKeepsDistance(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	c := s.Controls

	c.Rotate(math.Pi/2, 0)
	if !near(s.Camera.Distance(), 5) {
		t.Errorf("distance = %v, want 5", s.Camera.Distance())
	}
	// Camera at +X turned a quarter to the left ends up at +Z.
	if !vecNear(s.Camera.Position, mgl64.Vec3{0, 0, 5}) {
		t.Errorf("position = %v, want (0,0,5)", s.Camera.Position)
	}

	c.Drag(0, 10000, 100) // clamped at the pole
	if !near(s.Camera.Distance(), 5) {
		t.Errorf("distance after polar clamp = %v, want 5", s.Camera.Distance())
	}
	if s.Camera.Position.Y() >= 5 {
		t.Errorf("camera passed the pole: %v", s.Camera.Position)
	}

	c.EnableRotate = false
	before := s.Camera.Position
	c.Rotate(1, 1)
	if s.Camera.Position != before {
		t.Error("Rotate moved camera with rotation disabled")
	}
}

func TestOrbitControlsPan(t *testing.T) {
	s := mustBuild(t, DefaultConfig())
	c := s.Controls

	c.Pan(50, 0, 100)
	if s.Camera.Target == (mgl64.Vec3{}) {
		t.Fatal("pan did not move the target")
	}
	if !near(s.Camera.Distance(), 5) {
		t.Errorf("distance after pan = %v, want 5", s.Camera.Distance())
	}
	// Looking down -X, screen right is -Z; dragging right moves the scene
	// right, so the camera moves left (+Z).
	if s.Camera.Target.Z() <= 0 {
		t.Errorf("target = %v, want positive Z", s.Camera.Target)
	}
	if s.Camera.Target.Y() != 0 || s.Camera.Target.X() != 0 {
		t.Errorf("horizontal pan left the view plane: %v", s.Camera.Target)
	}
}

func TestEnvironmentPresets(t *testing.T) {
	names := Presets()
	if len(names) != 10 {
		t.Errorf("len(Presets()) = %d, want 10", len(names))
	}
	for _, name := range names {
		env, err := NewEnvironment(name)
		if err != nil {
			t.Fatalf("NewEnvironment(%q) error = %v", name, err)
		}
		for _, d := range []mgl64.Vec3{{0, 1, 0}, {0, -1, 0}, {1, 0, 0}, {0, 0, 0}} {
			c := env.Sample(d)
			if c.A != 1 {
				t.Errorf("%s: Sample(%v).A = %v, want 1", name, d, c.A)
			}
			if c.R < 0 || c.G < 0 || c.B < 0 {
				t.Errorf("%s: Sample(%v) negative: %v", name, d, c)
			}
		}
	}

	env, err := NewEnvironment(" Warehouse ")
	if err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
	up, down := env.Sample(mgl64.Vec3{0.3, 1, 0.2}), env.Sample(mgl64.Vec3{0, -1, 0})
	if up.R+up.G+up.B <= down.R+down.G+down.B {
		t.Errorf("warehouse ceiling %v should be brighter than floor %v", up, down)
	}

	if _, err := NewEnvironment("moon"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("NewEnvironment(moon) error = %v, want ErrUnknownPreset", err)
	}
}

func TestPointerFromPixels(t *testing.T) {
	tests := []struct {
		px, py float64
		w, h   int
		want   Pointer
	}{
		{400, 300, 800, 600, Pointer{0, 0}},
		{0, 0, 800, 600, Pointer{-1, 1}},
		{800, 600, 800, 600, Pointer{1, -1}},
		{600, 450, 800, 600, Pointer{0.5, -0.5}},
		{-100, 9000, 800, 600, Pointer{-1, -1}},
		{10, 10, 0, 600, Pointer{}},
	}
	for _, tt := range tests {
		got := PointerFromPixels(tt.px, tt.py, tt.w, tt.h)
		if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
			t.Errorf("PointerFromPixels(%v, %v, %d, %d) = %v, want %v", tt.px, tt.py, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestClockDelta(t *testing.T) {
	base := time.Unix(1000, 0)
	ticks := []time.Duration{16 * time.Millisecond, 50 * time.Millisecond, -time.Second}
	i := 0
	now := base
	c := &Clock{now: func() time.Time { return now }, last: base}

	now = base.Add(ticks[i])
	if d := c.Delta(); !near(d, 0.016) {
		t.Errorf("Delta() = %v, want 0.016", d)
	}
	i++
	now = now.Add(ticks[i])
	if d := c.Delta(); !near(d, 0.05) {
		t.Errorf("Delta() = %v, want 0.05", d)
	}
	i++
	now = now.Add(ticks[i])
	if d := c.Delta(); d != 0 {
		t.Errorf("Delta() after clock step back = %v, want 0", d)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: Euler{Z: math.Pi / 2},
		Scale:    mgl64.Vec3{2, 2, 2},
	}
	got := tr.Matrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl64.Vec3{1, 4, 3} // scale to (2,0,0), rotate to (0,2,0), translate
	if !vecNear(got, want) {
		t.Errorf("Matrix()·(1,0,0) = %v, want %v", got, want)
	}
	if tr.MaxScale() != 2 {
		t.Errorf("MaxScale() = %v, want 2", tr.MaxScale())
	}

	e := Euler{X: 0.3, Y: -0.7, Z: 1.1}
	p := mgl64.Vec3{0.2, -1, 0.5}
	byMatrix := e.Matrix().Mul4x1(p.Vec4(1)).Vec3()
	byQuat := e.Quat().Rotate(p)
	if !vecNear(byMatrix, byQuat) {
		t.Errorf("Quat rotation %v != matrix rotation %v", byQuat, byMatrix)
	}
}

func TestUpdaterFunc(t *testing.T) {
	s := &Scene{Nodes: []*Node{{Name: "a"}, {Name: "b"}}}
	var order []string
	for _, n := range s.Nodes {
		n.Updater = UpdaterFunc(func(f Frame, n *Node) { order = append(order, n.Name) })
	}
	s.Advance(0.1, Pointer{})
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("update order = %v, want [a b]", order)
	}
	if s.Node("missing") != nil {
		t.Error("Node(missing) should be nil")
	}
	if !math.IsNaN(s.LogoRotation()) {
		t.Error("LogoRotation() without a logo should be NaN")
	}
}
