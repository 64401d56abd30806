package render

import (
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/blur"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
)

// DefaultBlurScale is the blur radius, as a fraction of the frame height,
// that a fully rough transmissive surface sees.
const DefaultBlurScale = 0.03

// blurLevels is the number of roughness steps, the first being unblurred.
const blurLevels = 5

// backdrop is the opaque frame seen through transmissive materials. It
// implements material.Backdrop. Blurred versions are built on first use
// and shared by every band.
type backdrop struct {
	vp        mgl64.Mat4
	sharp     *image.RGBA
	maxRadius float64

	once   [blurLevels]sync.Once
	levels [blurLevels]*image.RGBA
}

func newBackdrop(vp mgl64.Mat4, sharp *image.RGBA, blurScale float64) *backdrop {
	return &backdrop{
		vp:        vp,
		sharp:     sharp,
		maxRadius: blurScale * float64(sharp.Rect.Dy()),
	}
}

// level returns the frame blurred for roughness step i.
func (b *backdrop) level(i int) *image.RGBA {
	if i <= 0 {
		return b.sharp
	}
	b.once[i].Do(func() {
		radius := b.maxRadius * float64(i) / (blurLevels - 1)
		if radius < 0.5 {
			b.levels[i] = b.sharp
			return
		}
		b.levels[i] = blur.Gaussian(b.sharp, radius)
	})
	return b.levels[i]
}

// Sample implements material.Backdrop.
func (b *backdrop) Sample(p mgl64.Vec3, roughness float64) (logoscene.RGBA, bool) {
	clip := b.vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return logoscene.RGBA{}, false
	}
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 {
		return logoscene.RGBA{}, false
	}
	r := b.sharp.Rect
	x := min(int((nx*0.5+0.5)*float64(r.Dx())), r.Dx()-1)
	y := min(int((0.5-ny*0.5)*float64(r.Dy())), r.Dy()-1)

	step := int(math.Round(mgl64.Clamp(roughness, 0, 1) * (blurLevels - 1)))
	img := b.level(step)
	return unpremultiply(img.Pix[img.PixOffset(x, y):]), true
}

// premultiplied converts a straight-alpha color to the bytes of an
// image.RGBA pixel.
func premultiplied(c logoscene.RGBA, px []uint8) {
	c = c.Clamp()
	px[0] = uint8(c.R*c.A*255 + 0.5)
	px[1] = uint8(c.G*c.A*255 + 0.5)
	px[2] = uint8(c.B*c.A*255 + 0.5)
	px[3] = uint8(c.A*255 + 0.5)
}

func unpremultiply(px []uint8) logoscene.RGBA {
	a := float64(px[3]) / 255
	if a == 0 {
		return logoscene.Transparent
	}
	return logoscene.RGBA{
		R: float64(px[0]) / 255 / a,
		G: float64(px[1]) / 255 / a,
		B: float64(px[2]) / 255 / a,
		A: a,
	}.Clamp()
}
