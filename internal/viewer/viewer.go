// Package viewer shows a scene in a desktop window.
//
// Each tick advances the scene by the measured frame time with the
// current pointer, and each draw renders it on the CPU and uploads the
// pixels. The optional export runs once, after the first update.
package viewer

import (
	"errors"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/export"
	"github.com/gogpu/logoscene/render"
	"github.com/gogpu/logoscene/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configures the window.
type Options struct {
	Title  string
	Width  int
	Height int
	TPS    int
	// Exporter, when set, saves the scene once after the first update.
	Exporter *export.Exporter
}

// Run opens the window and blocks until it is closed or Escape is
// pressed.
func Run(s *scene.Scene, r *render.Renderer, opts Options) error {
	if opts.Title == "" {
		opts.Title = "logoscene"
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	g := newGame(s, r, opts.Exporter)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TPS)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	scene    *scene.Scene
	renderer *render.Renderer
	clock    *scene.Clock
	exporter *export.Exporter
	exported bool

	ctl  controller
	w, h int

	pm      *logoscene.Pixmap
	scratch []byte
}

func newGame(s *scene.Scene, r *render.Renderer, e *export.Exporter) *game {
	return &game{scene: s, renderer: r, clock: scene.NewClock(), exporter: e}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if m := ebiten.Monitor(); m != nil {
		g.renderer.SetPixelRatio(m.DeviceScaleFactor())
	}

	x, y := ebiten.CursorPosition()
	_, wheel := ebiten.Wheel()
	in := Input{
		X:      float64(x),
		Y:      float64(y),
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		WheelY: wheel,
	}
	g.step(in, g.clock.Delta())
	return nil
}

// step runs one update phase.
func (g *game) step(in Input, delta float64) {
	p := g.ctl.apply(in, g.w, g.h, g.scene.Controls)
	g.scene.Advance(delta, p)
	if g.exporter != nil && !g.exported {
		g.exported = true
		g.exporter.Start(g.scene)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.pm == nil || g.pm.Width() != b.Dx() || g.pm.Height() != b.Dy() {
		g.pm = logoscene.NewPixmap(b.Dx(), b.Dy())
		g.scratch = make([]byte, len(g.pm.Data()))
	}
	if err := g.renderer.Render(g.scene, g.pm); err != nil {
		logoscene.Logger().Error("render failed", "err", err)
		return
	}
	premultiply(g.scratch, g.pm.Data())
	screen.WritePixels(g.scratch)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w, g.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// premultiply converts straight-alpha RGBA in src to the premultiplied
// form ebiten expects.
func premultiply(dst, src []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		a := uint32(src[i+3])
		if a == 0xff {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		dst[i+0] = byte(uint32(src[i+0]) * a / 0xff)
		dst[i+1] = byte(uint32(src[i+1]) * a / 0xff)
		dst[i+2] = byte(uint32(src[i+2]) * a / 0xff)
		dst[i+3] = byte(a)
	}
}
