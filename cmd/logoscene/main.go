// Command logoscene shows the animated logo scene in a window, or renders
// frames to PNG files with -headless.
//
//	logoscene -config scene.toml
//	logoscene -headless -frames 120 -out frames
//	logoscene -headless -frames 1 -export -export-dir out
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/config"
	"github.com/gogpu/logoscene/export"
	"github.com/gogpu/logoscene/internal/viewer"
	"github.com/gogpu/logoscene/render"
	"github.com/gogpu/logoscene/scene"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "logoscene:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "TOML configuration file")
		variant     = flag.String("variant", "", "scene variant: default or alternate")
		headless    = flag.Bool("headless", false, "render frames to PNG instead of opening a window")
		frames      = flag.Int("frames", 60, "frames to render in headless mode")
		fps         = flag.Float64("fps", 0, "frame rate (0 uses the configured rate)")
		outDir      = flag.String("out", "frames", "output directory for headless frames")
		width       = flag.Int("width", 0, "output width (0 uses the configured width)")
		height      = flag.Int("height", 0, "output height (0 uses the configured height)")
		exportGLB   = flag.Bool("export", false, "save "+export.Filename+" once the scene is shown")
		exportDir   = flag.String("export-dir", "", "directory for "+export.Filename)
		hud         = flag.Bool("hud", false, "draw the stats overlay")
		verbose     = flag.Bool("v", false, "debug logging")
		printConfig = flag.Bool("print-config", false, "print the effective configuration and exit")
	)
	flag.Parse()

	var opts []config.LoadOption
	if *variant != "" {
		opts = append(opts, config.WithVariant(*variant))
	}
	var (
		cfg config.File
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath, opts...)
	} else {
		cfg, err = config.Parse(nil, opts...)
	}
	if err != nil {
		return err
	}
	if *fps > 0 {
		cfg.Render.FPS = *fps
	}
	if *width > 0 {
		cfg.Render.Width = *width
	}
	if *height > 0 {
		cfg.Render.Height = *height
	}
	if *hud {
		cfg.Render.HUD = true
	}
	if *exportGLB {
		cfg.Export.Enabled = true
	}
	if *exportDir != "" {
		cfg.Export.Dir = *exportDir
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *printConfig {
		return cfg.Encode(os.Stdout)
	}

	logoscene.SetLogger(cfg.Log.NewLogger(os.Stderr))

	s, err := scene.Build(cfg.Config)
	if err != nil {
		return err
	}
	r := render.New(cfg.RenderOptions()...)
	defer r.Close()

	var exporter *export.Exporter
	if cfg.Export.Enabled {
		exporter = export.New(export.FileSink{Dir: cfg.Export.Dir})
	}

	if !*headless {
		return viewer.Run(s, r, viewer.Options{
			Width:    cfg.Render.Width,
			Height:   cfg.Render.Height,
			TPS:      int(cfg.Render.FPS),
			Exporter: exporter,
		})
	}
	return renderFrames(s, r, exporter, cfg, *frames, *outDir)
}

// renderFrames advances the scene at a fixed step and writes one PNG per
// frame. The export, if any, runs once after the first update and is
// waited for before returning.
func renderFrames(s *scene.Scene, r *render.Renderer, exporter *export.Exporter, cfg config.File, n int, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	pm := logoscene.NewPixmap(cfg.Render.Width, cfg.Render.Height)
	delta := 1 / cfg.Render.FPS

	var exported <-chan struct{}
	start := time.Now()
	triangles := 0
	for i := range n {
		s.Advance(delta, scene.Pointer{})
		if exporter != nil && exported == nil {
			exported = exporter.Start(s)
		}
		if err := r.Render(s, pm); err != nil {
			return err
		}
		triangles += r.Stats().Triangles
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := pm.SavePNG(path); err != nil {
			return fmt.Errorf("save frame %d: %w", i, err)
		}
	}
	if exported != nil {
		<-exported
	}

	elapsed := time.Since(start)
	p := message.NewPrinter(language.English)
	p.Printf("rendered %d frames at %dx%d in %v (%d triangles, %.1f frames/s)\n",
		n, cfg.Render.Width, cfg.Render.Height, elapsed.Round(time.Millisecond), triangles,
		float64(n)/max(elapsed.Seconds(), 1e-9))
	if exporter != nil {
		p.Printf("exported %d scene file(s) to %s\n", exporter.Saved(), filepath.Join(cfg.Export.Dir, export.Filename))
	}
	return nil
}
