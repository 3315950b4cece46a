package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"seehuhn.de/go/geom/vec"

	"github.com/example/annotator/internal/annotation"
)

const (
	lineHeight     = 1.3
	arrowMaxHead   = 22
	arrowHeadRatio = 0.35
	arrowSpread    = math.Pi / 5.5
)

// Head is the triangular tip of an arrow. Base is the midpoint of the edge
// opposite Tip, where the shaft ends.
type Head struct {
	Tip, Left, Right, Base vec.Vec2
}

// ArrowHead computes the head of an arrow from (x1,y1) to (x2,y2). ok is
// false for arrows shorter than one unit, which are not drawn.
func ArrowHead(x1, y1, x2, y2 float64) (Head, bool) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 1 {
		return Head{}, false
	}
	angle := math.Atan2(dy, dx)
	headLen := math.Min(arrowMaxHead, length*arrowHeadRatio)
	tip := vec.Vec2{X: x2, Y: y2}
	left := vec.Vec2{X: x2 - headLen*math.Cos(angle-arrowSpread), Y: y2 - headLen*math.Sin(angle-arrowSpread)}
	right := vec.Vec2{X: x2 - headLen*math.Cos(angle+arrowSpread), Y: y2 - headLen*math.Sin(angle+arrowSpread)}
	base := left.Add(right).Mul(0.5)
	return Head{Tip: tip, Left: left, Right: right, Base: base}, true
}

// CommentFontSize is the label size used for comments at the given scale.
func CommentFontSize(scale float64) float64 {
	return math.Max(1, math.Round(17/scale))
}

func (p *painter) annotation(a annotation.Annotation, scale float64) {
	switch v := a.(type) {
	case annotation.Freehand:
		if len(v.Points) < 2 {
			return
		}
		p.stroke(polyline(v.Points, false), pen{width: v.Width, color: paint(v.Color), cap: rasterx.RoundCap, join: rasterx.Round})
	case annotation.Rect:
		path := rectPath(v.X, v.Y, v.W, v.H)
		p.fill(path, withAlpha(v.Color, 0x1F))
		p.stroke(path, dashedOutline(v.Color, scale))
	case annotation.Arrow:
		head, ok := ArrowHead(v.X1, v.Y1, v.X2, v.Y2)
		if !ok {
			return
		}
		shaft := polyline([]vec.Vec2{{X: v.X1, Y: v.Y1}, head.Base}, false)
		p.stroke(shaft, pen{width: v.Width, color: paint(v.Color), cap: rasterx.RoundCap, join: rasterx.Miter})
		p.fill(polyline([]vec.Vec2{head.Tip, head.Left, head.Right}, true), paint(v.Color))
	case annotation.Text:
		if v.Content == "" {
			return
		}
		fs := v.FontSize / scale
		halfLeading := (lineHeight - 1) * fs / 2
		x := v.X + 4/scale
		y := v.Y + 2/scale + halfLeading
		p.outlinedText(strings.Split(v.Content, "\n"), x, y, fs, fs*lineHeight, 1/scale, paint(v.Color))
	case annotation.Comment:
		r := v.Rect.Normalize()
		p.stroke(rectPath(r.X, r.Y, r.W, r.H), dashedOutline(v.Color, scale))
		lines := strings.Split(v.Content, "\n")
		fs := CommentFontSize(scale)
		midY := v.TextY + float64(len(lines))*(fs+5)/2
		leader := polyline([]vec.Vec2{{X: r.X + r.W, Y: r.Y + r.H/2}, {X: v.TextX, Y: midY}}, false)
		p.stroke(leader, pen{width: 1.5 / scale, color: whiteHalf})
		p.stroke(leader, pen{width: 1 / scale, color: paint(v.Color), dash: []float64{5 / scale, 4 / scale}})
		p.outlinedText(lines, v.TextX, v.TextY, fs, fs+math.Round(5/scale), 1/scale, paint(v.Color))
	}
}

func dashedOutline(c color.RGBA, scale float64) pen {
	return pen{width: 3 / scale, color: paint(c), dash: []float64{8 / scale, 6 / scale}, join: rasterx.Miter}
}

func (p *painter) selection(a annotation.Annotation, scale float64) {
	b := annotation.Bounds(a).Expand(4 / scale)
	p.stroke(rectPath(b.X, b.Y, b.W, b.H), pen{width: 1 / scale, color: selectionBorder, join: rasterx.Miter})
}
