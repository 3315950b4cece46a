package canvas

import (
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/render"
)

// CommentInput is the comment entry box. X and Y are viewport pixels.
type CommentInput struct {
	Visible bool
	X, Y    float64
	Mode    string
	Text    string
}

type pendingComment struct {
	rect  annotation.Box
	color color.RGBA
}

// CommentInput returns the comment entry state.
func (c *Controller) CommentInput() CommentInput { return c.comment }

// SetCommentText replaces the text typed into the comment input.
func (c *Controller) SetCommentText(s string) {
	if c.comment.Visible {
		c.comment.Text = s
	}
}

func (c *Controller) commentUp(ev Pointer, p annotation.Point) {
	d := p.Sub(c.start)
	if math.Abs(d.X) <= commentMinDrag || math.Abs(d.Y) <= commentMinDrag {
		c.draft = nil
		c.log.Debug("gesture discarded", slog.String("tool", string(ToolComment)))
		return
	}
	c.pending = &pendingComment{
		rect:  annotation.Box{X: c.start.X, Y: c.start.Y, W: d.X, H: d.Y},
		color: c.color,
	}
	x := math.Max(ev.X, c.start.X*c.scale) + c.origin.X
	y := math.Max(ev.Y, c.start.Y*c.scale) + c.origin.Y
	c.openComment(x, y)
}

func (c *Controller) openComment(x, y float64) {
	c.comment = CommentInput{
		Visible: true,
		X:       math.Min(x+commentInputOff, c.viewportW-commentInputW),
		Y:       math.Min(y, c.viewportH-commentInputH),
		Mode:    "comment",
	}
}

// CloseComment hides the comment input and drops its pending rectangle and
// preview.
func (c *Controller) CloseComment() {
	c.comment.Visible = false
	c.comment.Text = ""
	c.pending = nil
	c.draft = nil
}

// SubmitComment commits a Comment for the pending rectangle. The label sits
// right of the rectangle, or left of it when it would run past the image
// edge. Blank text just closes the input.
func (c *Controller) SubmitComment() {
	text := strings.TrimSpace(c.comment.Text)
	if text == "" || c.pending == nil {
		c.CloseComment()
		return
	}
	r := c.pending.rect.Normalize()
	fs := render.CommentFontSize(c.scale)
	var maxW float64
	for _, line := range strings.Split(text, "\n") {
		maxW = math.Max(maxW, c.measure(line, fs))
	}
	gap := math.Round(commentGap / c.scale)
	textX := r.X + r.W + gap
	if c.imageW > 0 && textX+maxW > c.imageW-commentEdge {
		textX = math.Max(commentMinX, r.X-maxW-gap)
	}
	c.scene = c.scene.Append(annotation.Comment{
		Base:    annotation.Base{ID: annotation.NewID(), Color: c.pending.color},
		Rect:    r,
		Content: text,
		TextX:   textX,
		TextY:   r.Y,
	})
	c.commit("comment")
	c.CloseComment()
}
