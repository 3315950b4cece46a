package annotation

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Heuristic minimum size of a comment label used for bounds.
const (
	commentLabelMinW = 100
	commentLabelMinH = 20
)

// Box is an axis-aligned rectangle in canvas units.
type Box struct {
	X, Y, W, H float64
}

// Normalize returns the box with non-negative width and height.
func (b Box) Normalize() Box {
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d}
}

// Contains reports whether p lies inside the box, borders included.
func (b Box) Contains(p vec.Vec2) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Empty reports whether the box covers no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// BoxFromPoints spans the rectangle between two corners.
func BoxFromPoints(a, b vec.Vec2) Box {
	return Box{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), W: math.Abs(b.X - a.X), H: math.Abs(b.Y - a.Y)}
}

// Bounds returns the axis-aligned bounding box of a. Comment bounds include
// an estimated label box rather than measured text.
func Bounds(a Annotation) Box {
	switch v := a.(type) {
	case Freehand:
		if len(v.Points) == 0 {
			return Box{}
		}
		minX, minY := v.Points[0].X, v.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range v.Points[1:] {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	case Rect:
		return Box{X: v.X, Y: v.Y, W: v.W, H: v.H}
	case Arrow:
		return BoxFromPoints(vec.Vec2{X: v.X1, Y: v.Y1}, vec.Vec2{X: v.X2, Y: v.Y2})
	case Text:
		return Box{X: v.X, Y: v.Y, W: v.W, H: v.H}
	case Comment:
		minX := math.Min(v.Rect.X, v.TextX)
		minY := math.Min(v.Rect.Y, v.TextY)
		maxX := math.Max(v.Rect.X+v.Rect.W, v.TextX+commentLabelMinW)
		maxY := math.Max(v.Rect.Y+v.Rect.H, v.TextY+commentLabelMinH)
		return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	}
	return Box{}
}

// Move returns a translated copy of a. The input is left untouched.
func Move(a Annotation, dx, dy float64) Annotation {
	d := vec.Vec2{X: dx, Y: dy}
	switch v := a.(type) {
	case Freehand:
		pts := make([]vec.Vec2, len(v.Points))
		for i, p := range v.Points {
			pts[i] = p.Add(d)
		}
		v.Points = pts
		return v
	case Rect:
		v.X += dx
		v.Y += dy
		return v
	case Arrow:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case Text:
		v.X += dx
		v.Y += dy
		return v
	case Comment:
		v.Rect.X += dx
		v.Rect.Y += dy
		v.TextX += dx
		v.TextY += dy
		return v
	}
	return a
}

// HitTest reports whether p touches a. tol is in canvas units.
func HitTest(a Annotation, p vec.Vec2, tol float64) bool {
	switch v := a.(type) {
	case Freehand:
		for i := 1; i < len(v.Points); i++ {
			if DistanceToSegment(p, v.Points[i-1], v.Points[i]) <= tol {
				return true
			}
		}
		return false
	case Arrow:
		return DistanceToSegment(p, vec.Vec2{X: v.X1, Y: v.Y1}, vec.Vec2{X: v.X2, Y: v.Y2}) <= tol
	case Rect, Text:
		return Bounds(v).Expand(tol).Contains(p)
	case Comment:
		return v.Rect.Normalize().Expand(tol).Contains(p)
	}
	return false
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b vec.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Sub(a).Length()
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Length()
}
