package canvas

import (
	"log/slog"

	"github.com/example/annotator/internal/annotation"
)

// Undo closes an open text or comment buffer, otherwise steps the scene back
// one history entry and clears the selection.
func (c *Controller) Undo() {
	if c.text != nil {
		c.CancelText()
		return
	}
	if c.comment.Visible {
		c.CloseComment()
		return
	}
	s, ok := c.history.Undo()
	if !ok {
		return
	}
	c.scene = s
	c.selection = annotation.NewSelection()
	c.log.Debug("undo", slog.Int("annotations", len(s)))
}

// Redo reapplies the last undone entry. It does nothing while a buffer is
// open.
func (c *Controller) Redo() {
	if c.text != nil || c.comment.Visible {
		return
	}
	s, ok := c.history.Redo()
	if !ok {
		return
	}
	c.scene = s
	c.selection = annotation.NewSelection()
	c.log.Debug("redo", slog.Int("annotations", len(s)))
}

// ClearAll discards open buffers, empties the scene and resets history, and
// drops the selection, draft and crop rectangle.
func (c *Controller) ClearAll() {
	c.CancelText()
	if c.comment.Visible {
		c.CloseComment()
	}
	c.cancelGesture()
	c.scene = c.history.ResetToEmpty()
	c.selection = annotation.NewSelection()
	c.draft = nil
	c.crop.rect = nil
	c.crop.startRect = nil
	c.log.Debug("cleared")
}

// DeleteSelected removes every selected annotation in one history step.
func (c *Controller) DeleteSelected() {
	if len(c.selection) == 0 {
		return
	}
	c.scene = c.scene.Without(c.selection)
	c.selection = annotation.NewSelection()
	c.commit("delete")
}

// Select replaces the selection with the ids present in the scene.
func (c *Controller) Select(ids ...string) {
	sel := annotation.NewSelection(ids...)
	sel.Prune(c.scene)
	c.selection = sel
}

// ChangeTool switches tools after resolving open buffers. Choosing the crop
// tool toggles the crop session: turning it off drops the crop rectangle
// and falls back to the draw tool.
func (c *Controller) ChangeTool(t Tool) {
	if c.text != nil {
		c.ConfirmText()
	}
	if c.comment.Visible {
		c.CloseComment()
	}
	c.cancelGesture()
	defer func() { c.cursor = toolCursor(c.tool) }()
	if t == ToolCrop {
		next := !c.crop.active
		c.crop.active = next
		c.crop.selected = next
		if next {
			c.tool = ToolCrop
		} else {
			c.crop.rect = nil
			c.crop.hovering = false
			if c.tool == ToolCrop {
				c.tool = ToolDraw
			}
		}
		c.log.Debug("crop toggled", slog.Bool("active", next))
		return
	}
	if c.crop.active {
		c.crop.selected = false
		c.crop.hovering = false
	}
	c.tool = t
	if t != ToolSelect {
		c.selection = annotation.NewSelection()
	}
	c.log.Debug("tool changed", slog.String("tool", string(t)))
}

// Escape cancels an open text edit, else closes the comment input, else
// asks the host to close the canvas.
func (c *Controller) Escape() {
	switch {
	case c.text != nil:
		c.CancelText()
	case c.comment.Visible:
		c.Undo()
	default:
		c.closed = true
		if c.onClose != nil {
			c.onClose()
		}
	}
}
