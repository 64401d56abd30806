package logoscene

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap represents a rectangular RGBA8 pixel buffer (non-premultiplied).
// It is the frame buffer the renderer writes into.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R*255 + 0.5))
	p.data[i+1] = uint8(clamp255(c.G*255 + 0.5))
	p.data[i+2] = uint8(clamp255(c.B*255 + 0.5))
	p.data[i+3] = uint8(clamp255(c.A*255 + 0.5))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r := uint8(clamp255(c.R*255 + 0.5))
	g := uint8(clamp255(c.G*255 + 0.5))
	b := uint8(clamp255(c.B*255 + 0.5))
	a := uint8(clamp255(c.A*255 + 0.5))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ToImage converts the pixmap to an image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// NRGBA returns an image.NRGBA view that shares memory with p. Drawing
// into the view draws into the pixmap.
func (p *Pixmap) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: p.data, Stride: p.width * 4, Rect: image.Rect(0, 0, p.width, p.height)}
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())
	dst := pm.NRGBA()
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return pm
}

// ScaleTo resamples p into dst using Catmull-Rom filtering. It is used to
// bring a frame rendered at a device pixel ratio above 1 back to the
// output size.
func (p *Pixmap) ScaleTo(dst *Pixmap) {
	if dst.width == p.width && dst.height == p.height {
		copy(dst.data, p.data)
		return
	}
	src, out := p.NRGBA(), dst.NRGBA()
	draw.CatmullRom.Scale(out, out.Rect, src, src.Rect, draw.Src, nil)
}

// EncodePNG writes the pixmap as PNG to w.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Set implements the draw.Image interface.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.SetPixel(x, y, FromColor(c))
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
