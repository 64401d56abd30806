package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/logoscene"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// hudPad is the margin around the HUD text in pixels.
const hudPad = 4

var hudShade = image.NewUniform(color.NRGBA{A: 0x99})

// drawHUD writes a one-line status in the top-left corner of dst.
func drawHUD(dst *logoscene.Pixmap, st Stats) {
	text := fmt.Sprintf("frame %d  %.0f fps  %d tris  x%.1f", st.Frame, st.FPS, st.Triangles, st.PixelRatio)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst.NRGBA(),
		Src:  image.White,
		Face: face,
	}
	adv := d.MeasureString(text).Ceil()
	box := image.Rect(0, 0, adv+2*hudPad, face.Height+2*hudPad).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	draw.Draw(d.Dst, box, hudShade, image.Point{}, draw.Over)

	d.Dot = fixed.P(hudPad, hudPad+face.Ascent)
	d.DrawString(text)
}
