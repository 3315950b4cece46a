package canvas

import (
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/example/annotator/internal/annotation"
)

// textHandleHit is how close, in screen pixels, a press must land to a
// text box handle.
const textHandleHit = 4

// TextBuffer is the text box being edited. ID is empty for a new box.
type TextBuffer struct {
	ID         string
	X, Y, W, H float64
	Content    string
	Color      color.RGBA
	FontSize   float64
}

// Preview returns the buffer as a Text annotation for drawing.
func (b TextBuffer) Preview() annotation.Text {
	return annotation.Text{
		Base: annotation.Base{ID: b.ID, Color: b.Color},
		X:    b.X, Y: b.Y, W: b.W, H: b.H,
		Content: b.Content, FontSize: b.FontSize,
	}
}

type textResize struct {
	handle Handle
	from   annotation.Point
	box    annotation.Box
}

func (c *Controller) startText(p annotation.Point) {
	c.text = &TextBuffer{
		X:        p.X,
		Y:        p.Y,
		W:        DefaultTextW / c.scale,
		H:        (DefaultFontSize*1.3 + 4) / c.scale,
		Color:    c.color,
		FontSize: DefaultFontSize,
	}
}

func (c *Controller) editText(t annotation.Text) {
	c.text = &TextBuffer{
		ID: t.ID,
		X:  t.X, Y: t.Y, W: t.W, H: t.H,
		Content:  t.Content,
		Color:    t.Color,
		FontSize: t.FontSize,
	}
}

// TextBuffer returns the open text buffer.
func (c *Controller) TextBuffer() (TextBuffer, bool) {
	if c.text == nil {
		return TextBuffer{}, false
	}
	return *c.text, true
}

// EditingText reports whether a text buffer is open.
func (c *Controller) EditingText() bool { return c.text != nil }

// SetText replaces the content of the open text buffer.
func (c *Controller) SetText(content string) {
	if c.text != nil {
		c.text.Content = content
	}
}

// ConfirmText writes the buffer into the scene. Blank content leaves the
// scene untouched, including the annotation being edited.
func (c *Controller) ConfirmText() {
	if c.text == nil {
		return
	}
	buf := *c.text
	c.text = nil
	c.resize = nil
	content := strings.TrimSpace(buf.Content)
	if content == "" {
		c.log.Debug("empty text discarded", slog.String("id", buf.ID))
		return
	}
	if buf.ID != "" {
		a, ok := c.scene.Find(buf.ID)
		t, isText := a.(annotation.Text)
		if !ok || !isText {
			return
		}
		t.Content = content
		t.X, t.Y, t.W, t.H = buf.X, buf.Y, buf.W, buf.H
		t.FontSize = buf.FontSize
		c.scene = c.scene.Replace(t)
		c.commit("text edit")
		return
	}
	c.scene = c.scene.Append(annotation.Text{
		Base: annotation.Base{ID: annotation.NewID(), Color: buf.Color},
		X:    buf.X, Y: buf.Y, W: buf.W, H: buf.H,
		Content: content, FontSize: buf.FontSize,
	})
	c.commit("text")
}

// CancelText closes the buffer without touching the scene.
func (c *Controller) CancelText() {
	c.text = nil
	c.resize = nil
}

// AdjustFontSize steps the font size by delta, clamped to the allowed range.
// With a text buffer open the buffer changes. Otherwise the single selected
// Text annotation changes and the edit is committed. Steps that clamp to the
// current size change nothing.
func (c *Controller) AdjustFontSize(delta float64) {
	if c.text != nil {
		c.text.FontSize = clampFontSize(c.text.FontSize + delta)
		return
	}
	t, ok := c.SelectedText()
	if !ok {
		return
	}
	size := clampFontSize(t.FontSize + delta)
	if size == t.FontSize {
		return
	}
	t.FontSize = size
	c.scene = c.scene.Replace(t)
	c.commit("font size")
}

// SelectedText returns the selected annotation when exactly one Text is
// selected.
func (c *Controller) SelectedText() (annotation.Text, bool) {
	if len(c.selection) != 1 {
		return annotation.Text{}, false
	}
	for _, a := range c.scene {
		if t, ok := a.(annotation.Text); ok && c.selection.Has(t.ID) {
			return t, true
		}
	}
	return annotation.Text{}, false
}

func clampFontSize(s float64) float64 {
	return math.Max(MinFontSize, math.Min(MaxFontSize, s))
}

// TextHandleAt returns the resize handle of the open text box under ev.
func (c *Controller) TextHandleAt(ev Pointer) Handle {
	if c.text == nil {
		return HandleNone
	}
	s := c.scale
	x, y, w, h := c.text.X*s, c.text.Y*s, c.text.W*s, c.text.H*s
	spots := []struct {
		h    Handle
		x, y float64
	}{
		{HandleNW, x, y}, {HandleNE, x + w, y}, {HandleSW, x, y + h}, {HandleSE, x + w, y + h},
		{HandleN, x + w/2, y}, {HandleS, x + w/2, y + h}, {HandleW, x, y + h/2}, {HandleE, x + w, y + h/2},
	}
	for _, sp := range spots {
		if math.Abs(ev.X-sp.x) <= textHandleHit && math.Abs(ev.Y-sp.y) <= textHandleHit {
			return sp.h
		}
	}
	return HandleNone
}

// BeginTextResize starts dragging handle h of the open text box. Following
// PointerMove events resize the box until PointerUp.
func (c *Controller) BeginTextResize(h Handle, ev Pointer) {
	if c.text == nil || h == HandleNone {
		return
	}
	c.resize = &textResize{
		handle: h,
		from:   annotation.Pt(ev.X, ev.Y),
		box:    annotation.Box{X: c.text.X, Y: c.text.Y, W: c.text.W, H: c.text.H},
	}
}

func (c *Controller) resizeText(ev Pointer) {
	if c.text == nil {
		c.resize = nil
		return
	}
	r := c.resize
	dx := (ev.X - r.from.X) / c.scale
	dy := (ev.Y - r.from.Y) / c.scale
	minW, minH := MinTextW/c.scale, MinTextH/c.scale
	b := r.box
	if r.handle.has('e') {
		b.W = math.Max(minW, r.box.W+dx)
	}
	if r.handle.has('w') {
		if w := r.box.W - dx; w >= minW {
			b.X, b.W = r.box.X+dx, w
		} else {
			b.X, b.W = r.box.X+r.box.W-minW, minW
		}
	}
	if r.handle.has('s') {
		b.H = math.Max(minH, r.box.H+dy)
	}
	if r.handle.has('n') {
		if h := r.box.H - dy; h >= minH {
			b.Y, b.H = r.box.Y+dy, h
		} else {
			b.Y, b.H = r.box.Y+r.box.H-minH, minH
		}
	}
	c.text.X, c.text.Y, c.text.W, c.text.H = b.X, b.Y, b.W, b.H
}
