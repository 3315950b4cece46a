package canvas

import (
	"log/slog"
	"math"

	"golang.org/x/mobile/event/key"

	"github.com/example/annotator/internal/annotation"
)

// Pointer is a mouse event in screen pixels relative to the surface origin.
type Pointer struct {
	X, Y      float64
	Clicks    int
	Modifiers key.Modifiers
}

// Cursor is a pointer shape hint using CSS cursor names.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorCrosshair Cursor = "crosshair"
	CursorCell      Cursor = "cell"
	CursorText      Cursor = "text"
	CursorMove      Cursor = "move"
	CursorNWSE      Cursor = "nwse-resize"
	CursorNESW      Cursor = "nesw-resize"
	CursorNS        Cursor = "ns-resize"
	CursorEW        Cursor = "ew-resize"
)

func toolCursor(t Tool) Cursor {
	switch t {
	case ToolSelect:
		return CursorDefault
	case ToolComment:
		return CursorCell
	case ToolText:
		return CursorText
	}
	return CursorCrosshair
}

type phase int

const (
	phaseDown phase = iota
	phaseMove
	phaseUp
)

type handlerKey struct {
	tool  Tool
	phase phase
}

type handler func(c *Controller, ev Pointer, p annotation.Point)

func toolHandlers() map[handlerKey]handler {
	return map[handlerKey]handler{
		{ToolSelect, phaseDown}:  (*Controller).selectDown,
		{ToolDraw, phaseDown}:    (*Controller).strokeDown,
		{ToolDraw, phaseMove}:    (*Controller).strokeMove,
		{ToolDraw, phaseUp}:      (*Controller).strokeUp,
		{ToolRect, phaseDown}:    (*Controller).gestureDown,
		{ToolRect, phaseMove}:    (*Controller).boxMove,
		{ToolRect, phaseUp}:      (*Controller).rectUp,
		{ToolArrow, phaseDown}:   (*Controller).gestureDown,
		{ToolArrow, phaseMove}:   (*Controller).arrowMove,
		{ToolArrow, phaseUp}:     (*Controller).arrowUp,
		{ToolComment, phaseDown}: (*Controller).gestureDown,
		{ToolComment, phaseMove}: (*Controller).boxMove,
		{ToolComment, phaseUp}:   (*Controller).commentUp,
		{ToolText, phaseDown}:    (*Controller).textDown,
		{ToolCrop, phaseDown}:    (*Controller).cropDragStart,
		{ToolCrop, phaseMove}:    (*Controller).cropDragMove,
		{ToolCrop, phaseUp}:      (*Controller).cropDragEnd,
	}
}

func (c *Controller) dispatch(ph phase, ev Pointer, p annotation.Point) {
	if h, ok := c.handlers[handlerKey{c.tool, ph}]; ok {
		h(c, ev, p)
	}
}

// PointerDown starts a gesture. An open text or comment buffer is resolved
// first and swallows the press.
func (c *Controller) PointerDown(ev Pointer) {
	if c.text != nil {
		c.ConfirmText()
		return
	}
	if c.comment.Visible {
		c.CloseComment()
		return
	}
	p := c.toCanvas(ev)
	if c.cropPress(p) {
		return
	}
	c.dispatch(phaseDown, ev, p)
}

// PointerMove updates hover state and any gesture in progress.
func (c *Controller) PointerMove(ev Pointer) {
	if c.resize != nil {
		c.resizeText(ev)
		return
	}
	p := c.toCanvas(ev)
	if c.cropHover(p) {
		return
	}
	if c.crop.resizing != HandleNone {
		c.resizeCrop(p)
		return
	}
	if c.crop.moving {
		c.moveCrop(p)
		return
	}
	if c.tool == ToolSelect && c.drag == nil {
		c.hoverSelection(p)
	}
	if c.drag != nil && len(c.selection) > 0 {
		c.dragSelection(p)
		return
	}
	if !c.drawing {
		return
	}
	c.dispatch(phaseMove, ev, p)
}

// PointerUp finishes the gesture in progress.
func (c *Controller) PointerUp(ev Pointer) {
	c.crop.resizing = HandleNone
	c.crop.moving = false
	if c.resize != nil {
		c.resize = nil
		return
	}
	c.endDrag()
	if !c.drawing {
		return
	}
	c.drawing = false
	c.dispatch(phaseUp, ev, c.toCanvas(ev))
}

// ReleaseOutside ends every gesture after the button was released off the
// surface. A moved selection is committed, a crop drag keeps its live
// rectangle when large enough, and drawing gestures are discarded.
func (c *Controller) ReleaseOutside() {
	c.crop.resizing = HandleNone
	c.crop.moving = false
	c.resize = nil
	c.endDrag()
	if !c.drawing {
		return
	}
	c.drawing = false
	if c.tool == ToolCrop {
		c.finishCropDrag(c.crop.rect)
		return
	}
	c.log.Debug("gesture discarded", slog.String("tool", string(c.tool)))
	c.points = nil
	c.draft = nil
}

func (c *Controller) endDrag() {
	if c.drag == nil {
		return
	}
	if c.drag.moved {
		c.commit("move")
	}
	c.drag = nil
}

// cancelGesture drops any half-finished gesture.
func (c *Controller) cancelGesture() {
	c.endDrag()
	c.drawing = false
	c.points = nil
	c.draft = nil
	c.crop.resizing = HandleNone
	c.crop.moving = false
}

func (c *Controller) selectDown(ev Pointer, p annotation.Point) {
	hit, ok := c.scene.TopmostHit(p, hitTolerance/c.scale)
	if !ok {
		c.selection = annotation.NewSelection()
		return
	}
	id := hit.Meta().ID
	if t, isText := hit.(annotation.Text); isText && ev.Clicks == 2 {
		c.editText(t)
		c.selection = annotation.NewSelection()
		return
	}
	if ev.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		c.selection.Toggle(id)
		return
	}
	if !c.selection.Has(id) {
		c.selection = annotation.NewSelection(id)
	}
	c.drag = &dragState{last: p}
}

func (c *Controller) hoverSelection(p annotation.Point) {
	c.cursor = CursorDefault
	tol := hitTolerance / c.scale
	for i := len(c.scene) - 1; i >= 0; i-- {
		a := c.scene[i]
		if c.selection.Has(a.Meta().ID) && annotation.HitTest(a, p, tol) {
			c.cursor = CursorMove
			return
		}
	}
}

func (c *Controller) dragSelection(p annotation.Point) {
	c.cursor = CursorMove
	d := p.Sub(c.drag.last)
	if math.Abs(d.X) <= dragThreshold && math.Abs(d.Y) <= dragThreshold {
		return
	}
	c.drag.moved = true
	c.scene = c.scene.MoveSelected(c.selection, d.X, d.Y)
	c.drag.last = p
}

func (c *Controller) gestureDown(_ Pointer, p annotation.Point) {
	c.drawing = true
	c.start = p
}

func (c *Controller) strokeDown(ev Pointer, p annotation.Point) {
	c.gestureDown(ev, p)
	c.points = []annotation.Point{p}
}

func (c *Controller) strokeMove(_ Pointer, p annotation.Point) {
	c.points = append(c.points, p)
	c.draft = annotation.Freehand{
		Base:   annotation.Base{Color: c.color},
		Points: append([]annotation.Point(nil), c.points...),
		Width:  strokeWidth / c.scale,
	}
}

func (c *Controller) strokeUp(_ Pointer, _ annotation.Point) {
	c.draft = nil
	pts := c.points
	c.points = nil
	if len(pts) < 2 {
		c.log.Debug("gesture discarded", slog.String("tool", string(ToolDraw)))
		return
	}
	c.scene = c.scene.Append(annotation.Freehand{Base: c.newBase(), Points: pts, Width: strokeWidth / c.scale})
	c.commit("freehand")
}

func (c *Controller) boxMove(_ Pointer, p annotation.Point) {
	b := annotation.BoxFromPoints(c.start, p)
	c.draft = annotation.Rect{Base: annotation.Base{Color: c.color}, X: b.X, Y: b.Y, W: b.W, H: b.H}
}

func (c *Controller) rectUp(_ Pointer, p annotation.Point) {
	c.draft = nil
	d := p.Sub(c.start)
	if math.Abs(d.X) <= rectMinDrag && math.Abs(d.Y) <= rectMinDrag {
		c.log.Debug("gesture discarded", slog.String("tool", string(ToolRect)))
		return
	}
	b := annotation.BoxFromPoints(c.start, p)
	c.scene = c.scene.Append(annotation.Rect{Base: c.newBase(), X: b.X, Y: b.Y, W: b.W, H: b.H})
	c.commit("rect")
}

func (c *Controller) arrowMove(_ Pointer, p annotation.Point) {
	c.draft = annotation.Arrow{
		Base: annotation.Base{Color: c.color},
		X1:   c.start.X, Y1: c.start.Y, X2: p.X, Y2: p.Y,
		Width: strokeWidth / c.scale,
	}
}

func (c *Controller) arrowUp(_ Pointer, p annotation.Point) {
	c.draft = nil
	if p.Sub(c.start).Length() <= arrowMinLength {
		c.log.Debug("gesture discarded", slog.String("tool", string(ToolArrow)))
		return
	}
	c.scene = c.scene.Append(annotation.Arrow{
		Base: c.newBase(),
		X1:   c.start.X, Y1: c.start.Y, X2: p.X, Y2: p.Y,
		Width: strokeWidth / c.scale,
	})
	c.commit("arrow")
}

func (c *Controller) textDown(_ Pointer, p annotation.Point) {
	c.startText(p)
}
