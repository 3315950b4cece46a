package canvas

import (
	"math"
	"strings"

	"github.com/example/annotator/internal/annotation"
)

// Handle names an edge or corner of a rectangle by compass direction.
type Handle string

const (
	HandleNone Handle = ""
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleE    Handle = "e"
	HandleW    Handle = "w"
	HandleNE   Handle = "ne"
	HandleNW   Handle = "nw"
	HandleSE   Handle = "se"
	HandleSW   Handle = "sw"
)

func (h Handle) has(dir byte) bool {
	return strings.IndexByte(string(h), dir) >= 0
}

func (h Handle) cursor() Cursor {
	switch h {
	case HandleNW, HandleSE:
		return CursorNWSE
	case HandleNE, HandleSW:
		return CursorNESW
	case HandleN, HandleS:
		return CursorNS
	case HandleE, HandleW:
		return CursorEW
	}
	return CursorDefault
}

type cropState struct {
	rect      *annotation.Box
	startRect *annotation.Box
	active    bool
	selected  bool
	hovering  bool
	resizing  Handle
	moving    bool
	grab      annotation.Point
}

// CropRect returns the crop rectangle in canvas units.
func (c *Controller) CropRect() (annotation.Box, bool) {
	if c.crop.rect == nil {
		return annotation.Box{}, false
	}
	return *c.crop.rect, true
}

// CropActive reports whether a crop session is open.
func (c *Controller) CropActive() bool { return c.crop.active }

// CropSelected reports whether the crop rectangle shows its handles.
func (c *Controller) CropSelected() bool { return c.crop.selected }

// HoveringCropHandle reports whether the pointer rests on a crop edge.
func (c *Controller) HoveringCropHandle() bool { return c.crop.hovering }

// cropEdge returns the edge or corner of r within the grab margin of p.
// Corners win over edges.
func (c *Controller) cropEdge(p annotation.Point, r annotation.Box) Handle {
	m := cropEdgeMargin / c.scale
	inX := p.X >= r.X-m && p.X <= r.X+r.W+m
	inY := p.Y >= r.Y-m && p.Y <= r.Y+r.H+m
	left := math.Abs(p.X-r.X) < m && inY
	right := math.Abs(p.X-(r.X+r.W)) < m && inY
	top := math.Abs(p.Y-r.Y) < m && inX
	bottom := math.Abs(p.Y-(r.Y+r.H)) < m && inX
	switch {
	case left && top:
		return HandleNW
	case right && top:
		return HandleNE
	case left && bottom:
		return HandleSW
	case right && bottom:
		return HandleSE
	case top:
		return HandleN
	case bottom:
		return HandleS
	case left:
		return HandleW
	case right:
		return HandleE
	}
	return HandleNone
}

func insideStrict(p annotation.Point, r annotation.Box) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

// cropPress handles a press on an existing crop rectangle. It reports
// whether the press was consumed.
func (c *Controller) cropPress(p annotation.Point) bool {
	if !c.crop.active || c.crop.rect == nil {
		return false
	}
	r := *c.crop.rect
	if h := c.cropEdge(p, r); h != HandleNone {
		c.crop.resizing = h
		c.crop.selected = true
		return true
	}
	if insideStrict(p, r) && c.tool == ToolCrop {
		c.crop.moving = true
		c.crop.selected = true
		c.crop.grab = annotation.Pt(p.X-r.X, p.Y-r.Y)
		return true
	}
	c.crop.selected = false
	return false
}

// cropHover tracks the handle under the pointer. It reports true when the
// pointer rests on a handle with no gesture running.
func (c *Controller) cropHover(p annotation.Point) bool {
	if !c.crop.active || c.crop.rect == nil || c.crop.resizing != HandleNone || c.crop.moving {
		return false
	}
	r := *c.crop.rect
	h := c.cropEdge(p, r)
	c.crop.hovering = h != HandleNone
	switch {
	case h != HandleNone:
		c.cursor = h.cursor()
		return !c.drawing && c.drag == nil
	case c.tool == ToolCrop && insideStrict(p, r):
		c.cursor = CursorMove
	default:
		c.cursor = toolCursor(c.tool)
	}
	return false
}

func (c *Controller) resizeCrop(p annotation.Point) {
	if c.crop.rect == nil {
		return
	}
	r := *c.crop.rect
	next := r
	h := c.crop.resizing
	if h.has('e') {
		next.W = math.Max(cropMinSize, p.X-r.X)
	}
	if h.has('w') {
		if nw := r.X + r.W - p.X; nw > cropMinSize {
			next.X, next.W = p.X, nw
		} else {
			next.X, next.W = r.X+r.W-cropMinSize, cropMinSize
		}
	}
	if h.has('s') {
		next.H = math.Max(cropMinSize, p.Y-r.Y)
	}
	if h.has('n') {
		if nh := r.Y + r.H - p.Y; nh > cropMinSize {
			next.Y, next.H = p.Y, nh
		} else {
			next.Y, next.H = r.Y+r.H-cropMinSize, cropMinSize
		}
	}
	c.crop.rect = &next
}

func (c *Controller) moveCrop(p annotation.Point) {
	if c.crop.rect == nil {
		return
	}
	next := *c.crop.rect
	next.X = p.X - c.crop.grab.X
	next.Y = p.Y - c.crop.grab.Y
	c.crop.rect = &next
}

func (c *Controller) cropDragStart(_ Pointer, p annotation.Point) {
	c.drawing = true
	c.start = p
	c.crop.startRect = nil
	if c.crop.rect != nil {
		r := *c.crop.rect
		c.crop.startRect = &r
	}
}

func (c *Controller) cropDragMove(_ Pointer, p annotation.Point) {
	b := annotation.BoxFromPoints(c.start, p)
	c.crop.rect = &b
}

func (c *Controller) cropDragEnd(_ Pointer, p annotation.Point) {
	b := annotation.BoxFromPoints(c.start, p)
	c.finishCropDrag(&b)
}

// finishCropDrag keeps r as the crop rectangle if it is large enough,
// otherwise restores the rectangle from before the drag.
func (c *Controller) finishCropDrag(r *annotation.Box) {
	c.draft = nil
	if r == nil || r.W < cropMinDrag || r.H < cropMinDrag {
		c.crop.rect = c.crop.startRect
		c.crop.startRect = nil
		return
	}
	b := *r
	c.crop.rect = &b
	c.crop.selected = true
	c.crop.startRect = nil
}
