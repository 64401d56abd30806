package render

import (
	"errors"
	"image"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/internal/parallel"
	"github.com/gogpu/logoscene/material"
	"github.com/gogpu/logoscene/scene"
)

// Errors returned by Render.
var (
	ErrNilScene    = errors.New("render: nil scene")
	ErrNoCamera    = errors.New("render: scene has no camera")
	ErrEmptyTarget = errors.New("render: target pixmap is empty")
	ErrClosed      = errors.New("render: renderer is closed")
)

// Stats describes the last rendered frame.
type Stats struct {
	Frame      uint64
	Width      int // internal resolution
	Height     int
	PixelRatio float64
	Triangles  int // after clipping and culling
	Fragments  int // shaded pixels, both passes
	FPS        float64
	Duration   time.Duration
}

// Renderer draws a scene into a Pixmap on the CPU.
//
// Thread safety: Render calls are serialized. The scene must not be
// advanced while Render runs.
type Renderer struct {
	opts options
	pool *parallel.WorkerPool

	mu     sync.Mutex
	closed bool
	ratio  float64

	// Buffers at the internal (pixel ratio scaled) resolution, reused
	// across frames.
	w, h     int
	color    []logoscene.RGBA
	opaque   gbuffer
	glass    gbuffer
	solidGeo batch
	glassGeo batch
	frame    *logoscene.Pixmap
	backImg  *image.RGBA

	stats Stats
	last  time.Time
}

// New creates a renderer and starts its worker pool. Call Close when done.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		opts:  o,
		pool:  parallel.NewWorkerPool(o.workers),
		ratio: o.pixelRatio,
	}
}

// SetPixelRatio sets the device pixel ratio of the target surface. The
// ratio used for rendering is clamped to the range set by WithDPR.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		return
	}
	r.mu.Lock()
	r.ratio = ratio
	r.mu.Unlock()
}

// PixelRatio returns the clamped ratio frames are rendered at.
func (r *Renderer) PixelRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.effectiveRatio()
}

func (r *Renderer) effectiveRatio() float64 {
	return mgl64.Clamp(r.ratio, r.opts.dprMin, r.opts.dprMax)
}

// Stats returns statistics for the last rendered frame.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Workers returns the number of rasterizer workers.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// Close stops the worker pool. Render fails after Close.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.pool.Close()
}

func (r *Renderer) resize(w, h int) {
	if w == r.w && h == r.h {
		return
	}
	r.w, r.h = w, h
	r.color = make([]logoscene.RGBA, w*h)
	r.opaque.resize(w * h)
	r.glass.resize(w * h)
	r.frame = logoscene.NewPixmap(w, h)
	r.backImg = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Render draws s into dst. Opaque nodes are rasterized and shaded first;
// transmissive nodes are then drawn over them, depth-tested against the
// opaque pass, seeing the opaque frame through a Backdrop.
func (r *Renderer) Render(s *scene.Scene, dst *logoscene.Pixmap) error {
	if s == nil {
		return ErrNilScene
	}
	if s.Camera == nil {
		return ErrNoCamera
	}
	if dst == nil || dst.Width() <= 0 || dst.Height() <= 0 {
		return ErrEmptyTarget
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	start := time.Now()

	ratio := r.effectiveRatio()
	w := max(1, int(math.Round(float64(dst.Width())*ratio)))
	h := max(1, int(math.Round(float64(dst.Height())*ratio)))
	r.resize(w, h)

	cam := s.Camera
	vp := cam.Projection(float64(w) / float64(h)).Mul4(cam.View())
	eye := cam.Position
	lighting := s.Lighting()

	r.solidGeo.reset(s.Nodes)
	r.glassGeo.reset(s.Nodes)
	for i, n := range s.Nodes {
		if material.IsTransmissive(n.Material) {
			r.glassGeo.add(i, vp, w, h)
		} else {
			r.solidGeo.add(i, vp, w, h)
		}
	}

	clearColor := r.opts.clear
	var fragments [2]int64
	var fragMu sync.Mutex
	count := func(pass, n int) {
		fragMu.Lock()
		fragments[pass] += int64(n)
		fragMu.Unlock()
	}

	// Opaque pass.
	r.pool.ForEachBand(h, func(b parallel.Band) {
		r.opaque.clearRows(b, w)
		for i := b.Y0 * w; i < b.Y1*w; i++ {
			r.color[i] = clearColor
		}
		r.solidGeo.rasterize(b, &r.opaque, nil, w)
		count(0, r.shade(b, &r.solidGeo, &r.opaque, eye, lighting, nil))
	})

	// Transmission pass.
	if len(r.glassGeo.tris) > 0 {
		r.pool.ForEachBand(h, func(b parallel.Band) {
			for i := b.Y0 * w; i < b.Y1*w; i++ {
				premultiplied(r.color[i], r.backImg.Pix[i*4:i*4+4])
			}
		})
		back := newBackdrop(vp, r.backImg, r.opts.blurScale)
		r.pool.ForEachBand(h, func(b parallel.Band) {
			r.glass.clearRows(b, w)
			r.glassGeo.rasterize(b, &r.glass, r.opaque.depth, w)
			count(1, r.shade(b, &r.glassGeo, &r.glass, eye, lighting, back))
		})
	}

	r.pool.ForEachBand(h, func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			for x := range w {
				r.frame.SetPixel(x, y, r.color[y*w+x])
			}
		}
	})
	r.frame.ScaleTo(dst)

	r.stats.Frame++
	r.stats.Width, r.stats.Height = w, h
	r.stats.PixelRatio = ratio
	r.stats.Triangles = len(r.solidGeo.tris) + len(r.glassGeo.tris)
	r.stats.Fragments = int(fragments[0] + fragments[1])
	r.stats.Duration = time.Since(start)
	if !r.last.IsZero() {
		if dt := start.Sub(r.last).Seconds(); dt > 0 {
			fps := 1 / dt
			if r.stats.FPS == 0 {
				r.stats.FPS = fps
			} else {
				r.stats.FPS += (fps - r.stats.FPS) * 0.1
			}
		}
	}
	r.last = start

	if r.opts.hud {
		drawHUD(dst, r.stats)
	}
	logoscene.Logger().Debug("frame rendered",
		"frame", r.stats.Frame,
		"size", [2]int{w, h},
		"triangles", r.stats.Triangles,
		"fragments", r.stats.Fragments,
		"duration", r.stats.Duration)
	return nil
}

// shade runs the material of every covered pixel in band and composites
// the result over the color buffer. It returns the number of pixels
// shaded.
func (r *Renderer) shade(b parallel.Band, geo *batch, g *gbuffer, eye mgl64.Vec3, lt *material.Lighting, back material.Backdrop) int {
	shaded := 0
	surf := material.Surface{Lighting: lt, Backdrop: back}
	for i := b.Y0 * r.w; i < b.Y1*r.w; i++ {
		if g.tri[i] < 0 {
			continue
		}
		node := geo.surface(g, i, eye, &surf)
		c := geo.nodes[node].Material.Shade(&surf)
		r.color[i] = over(r.color[i], c)
		shaded++
	}
	return shaded
}

// over composites straight-alpha src over dst.
func over(dst, src logoscene.RGBA) logoscene.RGBA {
	if src.A >= 1 {
		return src
	}
	a := src.A + dst.A*(1-src.A)
	if a == 0 {
		return logoscene.Transparent
	}
	k := dst.A * (1 - src.A)
	return logoscene.RGBA{
		R: (src.R*src.A + dst.R*k) / a,
		G: (src.G*src.A + dst.G*k) / a,
		B: (src.B*src.A + dst.B*k) / a,
		A: a,
	}
}
