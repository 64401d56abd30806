package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/logoscene/render"
	"github.com/gogpu/logoscene/scene"
)

func TestDefaultIsValid(t *testing.T) {
	f := Default()
	if err := f.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if f.Variant != VariantDefault {
		t.Errorf("Variant = %q", f.Variant)
	}
	if f.Export.Enabled {
		t.Error("export enabled by default")
	}
	if f.Camera.EnableZoom {
		t.Error("zoom enabled by default")
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := Default()
	if f.Render != d.Render || f.Export != d.Export || f.Log != d.Log {
		t.Errorf("host settings changed: %+v", f)
	}
	if f.Background.Rate != 0.5 || f.Droplet.Thickness != 10 || f.Droplet.Roughness != 0.65 {
		t.Errorf("scene defaults changed: bg rate %v droplet %+v", f.Background.Rate, f.Droplet)
	}
}

func TestParseMergesOverDefaults(t *testing.T) {
	data := []byte(`
[palette]
base = "#ff8800"

[camera]
enable_zoom = true

[render]
width = 320
height = 200
hud = true
clear_color = "#102030"

[export]
enabled = true
dir = "out"

[log]
level = "debug"
format = "json"
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Palette.Base != "#ff8800" || f.Palette.ColorB != "#0070ff" {
		t.Errorf("palette = %+v", f.Palette)
	}
	if !f.Camera.EnableZoom || f.Camera.FOV != 75 {
		t.Errorf("camera = %+v", f.Camera)
	}
	if f.Render.Width != 320 || f.Render.Height != 200 || !f.Render.HUD || f.Render.FPS != 60 {
		t.Errorf("render = %+v", f.Render)
	}
	if !f.Export.Enabled || f.Export.Dir != "out" {
		t.Errorf("export = %+v", f.Export)
	}
	if len(f.Logo.Layers) != 4 {
		t.Errorf("logo layers = %d, want defaults kept", len(f.Logo.Layers))
	}
}

func TestParseReplacesLayers(t *testing.T) {
	data := []byte(`
[[logo.layers]]
kind = "base"
mode = "normal"
color = "#ffffff"

[[logo.layers]]
kind = "fresnel"
mode = "screen"
color = "white"
intensity = 1
power = 2
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Logo.Layers) != 2 || f.Logo.Layers[0].Color != "#ffffff" {
		t.Errorf("logo layers = %+v", f.Logo.Layers)
	}
	if f.Logo.Layers[0].Alpha != nil {
		t.Error("missing alpha decoded as non-nil")
	}
}

func TestParseVariant(t *testing.T) {
	f, err := Parse([]byte(`variant = "alternate"`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Background.Rate != 0.1 || f.Droplet.Thickness != 2 || f.Droplet.Roughness != 0.3 {
		t.Errorf("alternate not applied: rate %v droplet %+v", f.Background.Rate, f.Droplet)
	}
	s, err := scene.Build(f.Config)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	s.Advance(1, scene.Pointer{})
	if got := s.Node(scene.BackgroundName).Transform.Rotation.X; got < 0.0999 || got > 0.1001 {
		t.Errorf("background rotation after 1s = %v, want 0.1", got)
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		rate    float64
		wantErr bool
	}{
		{"", VariantDefault, 0.5, false},
		{"default", VariantDefault, 0.5, false},
		{" Alternate ", VariantAlternate, 0.1, false},
		{"sunset", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Base(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Base(%q) error = %v", tt.name, err)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("error %v does not wrap ErrInvalid", err)
				}
				return
			}
			if f.Variant != tt.want || f.Background.Rate != tt.rate {
				t.Errorf("Base(%q) = variant %q rate %v, want %q %v", tt.name, f.Variant, f.Background.Rate, tt.want, tt.rate)
			}
		})
	}
}

func TestExplicitKeysWinOverVariant(t *testing.T) {
	f, err := Parse([]byte("variant = \"alternate\"\n\n[droplet]\nthickness = 5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Droplet.Thickness != 5 {
		t.Errorf("thickness = %v, want the file's 5", f.Droplet.Thickness)
	}
	if f.Droplet.Roughness != 0.3 || f.Background.Rate != 0.1 {
		t.Errorf("unset keys lost the variant: roughness %v rate %v", f.Droplet.Roughness, f.Background.Rate)
	}
}

func TestWithVariantOverridesFile(t *testing.T) {
	data := []byte("variant = \"alternate\"\n")

	f, err := Parse(data, WithVariant(VariantDefault))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := Default()
	if f.Variant != VariantDefault || f.Background.Rate != d.Background.Rate || f.Droplet != d.Droplet {
		t.Errorf("got variant %q rate %v droplet %+v, want the default variant's values",
			f.Variant, f.Background.Rate, f.Droplet)
	}

	// The printed configuration reloads to the same values.
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v", err)
	}
	if again.Variant != f.Variant || again.Background.Rate != f.Background.Rate || again.Droplet != f.Droplet {
		t.Errorf("reloaded %q rate %v droplet %+v", again.Variant, again.Background.Rate, again.Droplet)
	}

	if _, err := Parse(data, WithVariant("sunset")); !errors.Is(err, ErrInvalid) {
		t.Errorf("WithVariant(sunset) error = %v, want ErrInvalid", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[render\nwidth = 1", "line"},
		{"unknown key", "[render]\nwidht = 10", "widht"},
		{"zero size", "[render]\nwidth = 0", "render size"},
		{"fps", "[render]\nfps = -1", "fps"},
		{"dpr", "[render]\ndpr_min = 2\ndpr_max = 1", "dpr"},
		{"clear color", "[render]\nclear_color = \"nope\"", "clear_color"},
		{"log level", "[log]\nlevel = \"loud\"", "loud"},
		{"log format", "[log]\nformat = \"xml\"", "xml"},
		{"blend mode", "[[logo.layers]]\nkind = \"base\"\nmode = \"burn\"\ncolor = \"#fff\"\n[[logo.layers]]\nkind = \"base\"\ncolor = \"#fff\"", "burn"},
		{"layer count", "[[logo.layers]]\nkind = \"base\"\ncolor = \"#fff\"", "1 layers"},
		{"side", "[background]\nside = \"inside\"", "inside"},
		{"lighting", "[logo]\nlighting = \"phong\"", "phong"},
		{"preset", "[environment]\npreset = \"moon\"", "moon"},
		{"camera", "[camera]\nnear = 5\nfar = 1", "near"},
		{"variant", "variant = \"sunset\"", "sunset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte("[render]\nworkers = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Render.Workers != 3 {
		t.Errorf("workers = %d", f.Render.Workers)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f, err := Base(VariantAlternate)
	if err != nil {
		t.Fatal(err)
	}
	f.Render.HUD = true

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v\n%s", err, buf.String())
	}
	if got.Render != f.Render || got.Droplet != f.Droplet || got.Background.Rate != f.Background.Rate {
		t.Errorf("round trip changed settings:\n got %+v\nwant %+v", got.Render, f.Render)
	}
	if len(got.Logo.Layers) != len(f.Logo.Layers) {
		t.Errorf("logo layers = %d, want %d", len(got.Logo.Layers), len(f.Logo.Layers))
	}
}

func TestRenderOptions(t *testing.T) {
	f := Default()
	f.Render.Workers = 2
	r := render.New(f.RenderOptions()...)
	defer r.Close()
	if r.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", r.Workers())
	}
	r.SetPixelRatio(3)
	if got := r.PixelRatio(); got != 2 {
		t.Errorf("PixelRatio() = %v, want clamp to 2", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %q", out)
	}
}
