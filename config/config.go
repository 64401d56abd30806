// Package config loads the logoscene configuration file.
//
// The file is TOML. Every key is optional: a file is merged over the base
// of its variant (Base), so an empty file describes the reference scene
// and explicit keys always win over the variant. The scene tables
// ([palette], [camera], [background], [logo], [droplet], [lights],
// [environment]) map onto scene.Config; [render], [export] and [log]
// configure the host.
//
//	variant = "alternate"
//
//	[palette]
//	base = "#61dafb"
//
//	[render]
//	width = 1280
//	height = 720
//	hud = true
//
//	[export]
//	enabled = true
//	dir = "out"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/render"
	"github.com/gogpu/logoscene/scene"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// File is the whole configuration file.
type File struct {
	scene.Config

	// Variant names the preset the file's values are layered over.
	Variant string `toml:"variant"`

	Render RenderConfig `toml:"render"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// RenderConfig configures the output surface and the rasterizer.
type RenderConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Workers    int     `toml:"workers"` // 0 means GOMAXPROCS
	FPS        float64 `toml:"fps"`
	ClearColor string  `toml:"clear_color"`
	DPRMin     float64 `toml:"dpr_min"`
	DPRMax     float64 `toml:"dpr_max"`
	BlurScale  float64 `toml:"blur_scale"`
	HUD        bool    `toml:"hud"`
}

// ExportConfig controls the GLB export that runs once when the scene is
// first shown.
type ExportConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // text or json
}

// Default returns the reference configuration.
func Default() File {
	return File{
		Config:  scene.DefaultConfig(),
		Variant: VariantDefault,
		Render: RenderConfig{
			Width:      960,
			Height:     640,
			FPS:        60,
			ClearColor: "#000000",
			DPRMin:     1,
			DPRMax:     2,
			BlurScale:  render.DefaultBlurScale,
		},
		Export: ExportConfig{Dir: "."},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadOption configures Parse and Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	variant string
}

// WithVariant selects the variant regardless of the file's variant key.
func WithVariant(name string) LoadOption {
	return func(o *loadOptions) {
		o.variant = name
	}
}

// Parse decodes TOML data over the base of the selected variant and
// validates the result. The variant comes from WithVariant, else from the
// file's variant key. Unknown keys are errors.
func Parse(data []byte, opts ...LoadOption) (File, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.variant == "" {
		var head struct {
			Variant string `toml:"variant"`
		}
		if err := toml.Unmarshal(data, &head); err != nil {
			return File{}, decodeError(err)
		}
		o.variant = head.Variant
	}

	f, err := Base(o.variant)
	if err != nil {
		return File{}, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, decodeError(err)
	}
	// The file's variant key never overrides the one the base was built from.
	key, err := variantKey(o.variant)
	if err != nil {
		return File{}, err
	}
	f.Variant = key
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func decodeError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Errorf("%w: line %d column %d: %s", ErrInvalid, row, col, derr.Error())
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(serr.String()))
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

// Load reads and parses the file at path.
func Load(path string, opts ...LoadOption) (File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data, opts...)
	if err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Encode writes f as TOML.
func (f File) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(f)
}

// Validate checks the host settings and builds the scene once to check
// the scene tables.
func (f File) Validate() error {
	r := f.Render
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, r.Width, r.Height)
	}
	if r.FPS <= 0 {
		return fmt.Errorf("%w: render fps %v", ErrInvalid, r.FPS)
	}
	if r.DPRMin < 1 || r.DPRMax < r.DPRMin {
		return fmt.Errorf("%w: dpr range [%v, %v]", ErrInvalid, r.DPRMin, r.DPRMax)
	}
	if r.BlurScale < 0 {
		return fmt.Errorf("%w: negative blur_scale", ErrInvalid)
	}
	if _, err := logoscene.ParseColor(r.ClearColor); err != nil {
		return fmt.Errorf("%w: clear_color: %w", ErrInvalid, err)
	}
	if _, err := parseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch strings.ToLower(f.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, f.Log.Format)
	}
	if _, err := scene.Build(f.Config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// RenderOptions returns the renderer options for f.
func (f File) RenderOptions() []render.Option {
	clearColor, err := logoscene.ParseColor(f.Render.ClearColor)
	if err != nil {
		clearColor = logoscene.Black
	}
	return []render.Option{
		render.WithWorkers(f.Render.Workers),
		render.WithClearColor(clearColor),
		render.WithDPR(f.Render.DPRMin, f.Render.DPRMax),
		render.WithBlurScale(f.Render.BlurScale),
		render.WithHUD(f.Render.HUD),
	}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q", s)
	}
	return l, nil
}

// NewLogger returns a logger writing to w as configured by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
