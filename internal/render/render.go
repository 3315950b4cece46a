// Package render draws a background image and annotation scene onto a
// raster surface. Coordinates are canvas units, one unit per surface pixel.
// Nominal pixel sizes are divided by the display scale so strokes keep the
// same on-screen weight at every zoom level.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/annotator/internal/annotation"
)

var (
	selectionBorder = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	whiteHalf       = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x80}
)

// Scene clears dst, scales bg to cover it, then draws the committed
// annotations, the draft on top and finally a border around every selected
// annotation. draft and sel may be nil. A nil bg leaves dst transparent
// underneath the annotations.
func Scene(dst draw.Image, bg image.Image, scene annotation.Scene, draft annotation.Annotation, sel annotation.Selection, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	b := dst.Bounds()
	draw.Draw(dst, b, image.Transparent, image.Point{}, draw.Src)
	if bg != nil {
		xdraw.NearestNeighbor.Scale(dst, b, bg, bg.Bounds(), draw.Over, nil)
	}
	p := newPainter(dst)
	for _, a := range scene {
		p.annotation(a, scale)
	}
	if draft != nil {
		p.annotation(draft, scale)
	}
	if len(sel) == 0 {
		return
	}
	for _, a := range scene {
		if sel.Has(a.Meta().ID) {
			p.selection(a, scale)
		}
	}
}

// Image renders into a new RGBA surface the size of bg.
func Image(bg image.Image, scene annotation.Scene, scale float64) *image.RGBA {
	b := bg.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	Scene(dst, bg, scene, nil, nil, scale)
	return dst
}
