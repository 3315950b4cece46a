// Package canvas implements the interaction state machine that turns pointer
// and keyboard events into edits of an annotation scene.
//
// A Controller owns the scene, selection, draft, crop rectangle, the open
// text or comment buffer and the undo history. Hosts feed it events in
// screen coordinates and read its state back to paint. All methods are
// expected to be called from one goroutine.
package canvas

import (
	"image/color"
	"log/slog"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/history"
	"github.com/example/annotator/internal/log"
	"github.com/example/annotator/internal/render"
)

// Tool is the active editing tool.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolDraw    Tool = "draw"
	ToolRect    Tool = "rect"
	ToolArrow   Tool = "arrow"
	ToolComment Tool = "comment"
	ToolText    Tool = "text"
	ToolCrop    Tool = "crop"
)

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolSelect, ToolDraw, ToolRect, ToolArrow, ToolComment, ToolText, ToolCrop}
}

// ParseTool resolves a tool by name.
func ParseTool(s string) (Tool, bool) {
	for _, t := range Tools() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Sizes in screen pixels unless noted otherwise. They are divided by the
// scale before use in canvas space.
const (
	hitTolerance    = 8
	strokeWidth     = 3
	cropEdgeMargin  = 12
	cropMinSize     = 40 // canvas units
	cropMinDrag     = 5  // canvas units
	rectMinDrag     = 2  // canvas units
	arrowMinLength  = 5  // canvas units
	commentMinDrag  = 10 // canvas units
	dragThreshold   = 1  // canvas units
	commentGap      = 14
	commentEdge     = 10 // canvas units
	commentMinX     = 6  // canvas units
	commentInputW   = 264
	commentInputH   = 160
	commentInputOff = 12
)

// Text box defaults.
const (
	DefaultFontSize = 20
	MinFontSize     = 12
	MaxFontSize     = 72
	FontSizeStep    = 4
	DefaultTextW    = 200
	MinTextW        = 80
	MinTextH        = 30
)

// Controller is the canvas state machine.
type Controller struct {
	log      *slog.Logger
	history  *history.Log
	limit    int
	measure  func(string, float64) float64
	handlers map[handlerKey]handler
	onClose  func()

	tool      Tool
	color     color.RGBA
	scale     float64
	imageW    float64
	imageH    float64
	origin    annotation.Point
	viewportW float64
	viewportH float64

	scene     annotation.Scene
	selection annotation.Selection
	draft     annotation.Annotation

	drawing bool
	start   annotation.Point
	points  []annotation.Point
	drag    *dragState

	crop    cropState
	text    *TextBuffer
	resize  *textResize
	comment CommentInput
	pending *pendingComment

	cursor Cursor
	closed bool
}

type dragState struct {
	last  annotation.Point
	moved bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithScale sets the initial zoom factor.
func WithScale(s float64) Option {
	return func(c *Controller) { c.SetScale(s) }
}

// WithColor sets the initial drawing colour.
func WithColor(col color.RGBA) Option {
	return func(c *Controller) { c.color = col }
}

// WithImageSize sets the background dimensions in canvas units.
func WithImageSize(w, h float64) Option {
	return func(c *Controller) { c.imageW, c.imageH = w, h }
}

// WithViewport places the surface at origin inside a w x h viewport, both
// in screen pixels. It bounds where the comment input may open.
func WithViewport(origin annotation.Point, w, h float64) Option {
	return func(c *Controller) { c.SetViewport(origin, w, h) }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithHistoryLimit caps the undo depth, sentinel included.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) { c.limit = n }
}

// WithMeasure overrides text measurement used to place comment labels.
func WithMeasure(fn func(text string, size float64) float64) Option {
	return func(c *Controller) { c.measure = fn }
}

// WithOnClose registers a callback for Escape on an idle canvas.
func WithOnClose(fn func()) Option {
	return func(c *Controller) { c.onClose = fn }
}

// WithScene seeds the canvas. The scene becomes the undo sentinel.
func WithScene(s annotation.Scene) Option {
	return func(c *Controller) { c.scene = s.Clone() }
}

// New returns a controller with the draw tool active.
func New(opts ...Option) *Controller {
	c := &Controller{
		tool:      ToolDraw,
		color:     annotation.DefaultColor(),
		scale:     1,
		scene:     annotation.Scene{},
		selection: annotation.NewSelection(),
		measure:   render.MeasureString,
		viewportW: 1 << 20,
		viewportH: 1 << 20,
	}
	c.handlers = toolHandlers()
	for _, opt := range opts {
		opt(c)
	}
	c.history = history.New(c.scene, c.limit)
	if c.log == nil {
		c.log = log.WithComponent("canvas")
	}
	c.cursor = toolCursor(c.tool)
	return c
}

// SetScale changes the zoom factor. Non-positive values are ignored.
func (c *Controller) SetScale(s float64) {
	if s > 0 {
		c.scale = s
	}
}

// SetViewport updates the surface origin and viewport size.
func (c *Controller) SetViewport(origin annotation.Point, w, h float64) {
	c.origin = origin
	if w > 0 {
		c.viewportW = w
	}
	if h > 0 {
		c.viewportH = h
	}
}

// SetImageSize updates the background dimensions.
func (c *Controller) SetImageSize(w, h float64) { c.imageW, c.imageH = w, h }

// SetColor changes the colour used for new annotations.
func (c *Controller) SetColor(col color.RGBA) { c.color = col }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// Color returns the drawing colour.
func (c *Controller) Color() color.RGBA { return c.color }

// Scale returns the zoom factor.
func (c *Controller) Scale() float64 { return c.scale }

// Scene returns a copy of the committed annotations.
func (c *Controller) Scene() annotation.Scene { return c.scene.Clone() }

// Draft returns the in-progress annotation, or nil.
func (c *Controller) Draft() annotation.Annotation {
	if c.draft == nil {
		return nil
	}
	return annotation.Clone(c.draft)
}

// Selection returns a copy of the selected ids.
func (c *Controller) Selection() annotation.Selection {
	return annotation.NewSelection(c.selection.IDs()...)
}

// HasSelection reports whether anything is selected.
func (c *Controller) HasSelection() bool { return len(c.selection) > 0 }

// CanUndo reports whether Undo would do anything.
func (c *Controller) CanUndo() bool {
	return c.text != nil || c.comment.Visible || c.history.CanUndo()
}

// CanRedo reports whether a redo is available.
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// Cursor returns the pointer shape hint for the last position seen.
func (c *Controller) Cursor() Cursor { return c.cursor }

// Closed reports whether Escape asked to close the canvas.
func (c *Controller) Closed() bool { return c.closed }

func (c *Controller) toCanvas(ev Pointer) annotation.Point {
	return annotation.Pt(ev.X/c.scale, ev.Y/c.scale)
}

// commit records the live scene as a new history entry.
func (c *Controller) commit(reason string) {
	c.history.Commit(c.scene)
	c.log.Debug("commit", slog.String("reason", reason), slog.Int("annotations", len(c.scene)))
}

func (c *Controller) newBase() annotation.Base {
	return annotation.Base{ID: annotation.NewID(), Color: c.color}
}
