package render

import "github.com/gogpu/logoscene"

// Option configures a Renderer during creation.
//
// Example:
//
//	// Defaults: GOMAXPROCS workers, opaque black clear, DPR clamped to [1, 2]
//	r := render.New()
//
//	// Four workers, transparent clear, HUD on
//	r := render.New(
//		render.WithWorkers(4),
//		render.WithClearColor(logoscene.Transparent),
//		render.WithHUD(true),
//	)
type Option func(*options)

type options struct {
	workers    int
	clear      logoscene.RGBA
	dprMin     float64
	dprMax     float64
	pixelRatio float64
	hud        bool
	blurScale  float64
}

func defaultOptions() options {
	return options{
		workers:    0, // GOMAXPROCS
		clear:      logoscene.Black,
		dprMin:     1,
		dprMax:     2,
		pixelRatio: 1,
		blurScale:  DefaultBlurScale,
	}
}

// WithWorkers sets the number of rasterizer workers. Zero or negative
// uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithClearColor sets the color of pixels no geometry covers.
func WithClearColor(c logoscene.RGBA) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithDPR sets the range the device pixel ratio is clamped to. Frames
// are rendered at size*ratio and resampled to the target size. Values
// below 1 or a max below min are ignored.
func WithDPR(minRatio, maxRatio float64) Option {
	return func(o *options) {
		if minRatio < 1 || maxRatio < minRatio {
			return
		}
		o.dprMin = minRatio
		o.dprMax = maxRatio
	}
}

// WithPixelRatio sets the initial device pixel ratio. See
// Renderer.SetPixelRatio.
func WithPixelRatio(ratio float64) Option {
	return func(o *options) {
		if ratio > 0 {
			o.pixelRatio = ratio
		}
	}
}

// WithHUD turns the frame counter overlay on or off.
func WithHUD(on bool) Option {
	return func(o *options) {
		o.hud = on
	}
}

// WithBlurScale sets the backdrop blur radius, as a fraction of the frame
// height, used for a fully rough transmissive surface.
func WithBlurScale(s float64) Option {
	return func(o *options) {
		if s >= 0 {
			o.blurScale = s
		}
	}
}
