package render

import (
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
)

// pen describes how a path is stroked.
type pen struct {
	width float64
	color color.Color
	dash  []float64
	cap   rasterx.CapFunc
	join  rasterx.JoinMode
}

// painter strokes and fills rasterx paths onto a single destination image.
type painter struct {
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

func newPainter(dst draw.Image) *painter {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	return &painter{
		dasher: rasterx.NewDasher(b.Dx(), b.Dy(), scanner),
		filler: rasterx.NewFiller(b.Dx(), b.Dy(), scanner),
	}
}

func (p *painter) stroke(path rasterx.Path, pn pen) {
	if pn.width <= 0 || len(path) == 0 {
		return
	}
	capFn := pn.cap
	if capFn == nil {
		capFn = rasterx.ButtCap
	}
	p.dasher.SetStroke(fixed.Int26_6(pn.width*64), fixed.Int26_6(10*64), capFn, capFn, rasterx.RoundGap, pn.join, pn.dash, 0)
	path.AddTo(p.dasher)
	p.dasher.SetColor(pn.color)
	p.dasher.Draw()
	p.dasher.Clear()
}

func (p *painter) fill(path rasterx.Path, c color.Color) {
	if len(path) == 0 {
		return
	}
	p.filler.SetWinding(true)
	path.AddTo(p.filler)
	p.filler.SetColor(c)
	p.filler.Draw()
	p.filler.Clear()
}

func polyline(pts []vec.Vec2, closed bool) rasterx.Path {
	var path rasterx.Path
	if len(pts) == 0 {
		return path
	}
	path.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		path.Line(rasterx.ToFixedP(pt.X, pt.Y))
	}
	path.Stop(closed)
	return path
}

func rectPath(x, y, w, h float64) rasterx.Path {
	return polyline([]vec.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, true)
}

// paint treats the stored channels as straight alpha.
func paint(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
