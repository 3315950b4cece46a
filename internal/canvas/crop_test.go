package canvas

import (
	"testing"

	"github.com/example/annotator/internal/annotation"
)

func croppedController(t *testing.T) *Controller {
	t.Helper()
	c := newTestController()
	c.ChangeTool(ToolCrop)
	if !c.CropActive() || c.Tool() != ToolCrop {
		t.Fatal("crop tool should open a crop session")
	}
	drag(c, 10, 10, 110, 110)
	r, ok := c.CropRect()
	if !ok || r != (annotation.Box{X: 10, Y: 10, W: 100, H: 100}) {
		t.Fatalf("unexpected crop rect %+v %v", r, ok)
	}
	if !c.CropSelected() {
		t.Fatal("fresh crop rect should be selected")
	}
	return c
}

func TestCropResizeEast(t *testing.T) {
	c := croppedController(t)
	c.PointerDown(Pointer{X: 110, Y: 60})
	c.PointerMove(Pointer{X: 150, Y: 60})
	c.PointerUp(Pointer{X: 150, Y: 60})
	if r, _ := c.CropRect(); r.W != 140 || r.X != 10 {
		t.Fatalf("unexpected rect after east resize %+v", r)
	}
	c.PointerDown(Pointer{X: 150, Y: 60})
	c.PointerMove(Pointer{X: 0, Y: 60})
	c.PointerUp(Pointer{X: 0, Y: 60})
	if r, _ := c.CropRect(); r.W != cropMinSize {
		t.Fatalf("width = %v, want %v", r.W, cropMinSize)
	}
}

func TestCropResizeNorthWestClamps(t *testing.T) {
	c := croppedController(t)
	c.PointerDown(Pointer{X: 10, Y: 10})
	c.PointerMove(Pointer{X: 200, Y: 200})
	c.PointerUp(Pointer{X: 200, Y: 200})
	r, _ := c.CropRect()
	if r != (annotation.Box{X: 70, Y: 70, W: 40, H: 40}) {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestCropMove(t *testing.T) {
	c := croppedController(t)
	c.PointerDown(Pointer{X: 60, Y: 60})
	c.PointerMove(Pointer{X: 80, Y: 70})
	c.PointerUp(Pointer{X: 80, Y: 70})
	r, _ := c.CropRect()
	if r != (annotation.Box{X: 30, Y: 20, W: 100, H: 100}) {
		t.Fatalf("unexpected rect after move %+v", r)
	}
}

func TestCropSmallDragRestoresPrevious(t *testing.T) {
	c := croppedController(t)
	drag(c, 200, 200, 202, 202)
	r, ok := c.CropRect()
	if !ok || r != (annotation.Box{X: 10, Y: 10, W: 100, H: 100}) {
		t.Fatalf("small drag should restore the old rect, got %+v %v", r, ok)
	}
	if len(c.Scene()) != 0 || c.CanUndo() {
		t.Fatal("cropping must not touch the scene")
	}
}

func TestCropReleaseOutsideKeepsLiveRect(t *testing.T) {
	c := newTestController()
	c.ChangeTool(ToolCrop)
	c.PointerDown(Pointer{X: 0, Y: 0})
	c.PointerMove(Pointer{X: 60, Y: 50})
	c.ReleaseOutside()
	r, ok := c.CropRect()
	if !ok || r != (annotation.Box{W: 60, H: 50}) {
		t.Fatalf("unexpected rect %+v %v", r, ok)
	}
}

func TestCropToggleOff(t *testing.T) {
	c := croppedController(t)
	c.ChangeTool(ToolSelect)
	if !c.CropActive() || c.CropSelected() {
		t.Fatal("switching tools keeps the session but deselects the rect")
	}
	if _, ok := c.CropRect(); !ok {
		t.Fatal("crop rect should survive a tool switch")
	}
	c.ChangeTool(ToolCrop)
	if c.CropActive() {
		t.Fatal("second crop toggle should close the session")
	}
	if _, ok := c.CropRect(); ok {
		t.Fatal("closing the session drops the rect")
	}
	if c.Tool() != ToolSelect {
		t.Fatalf("tool = %q, want select", c.Tool())
	}

	c.ChangeTool(ToolCrop)
	c.ChangeTool(ToolCrop)
	if c.Tool() != ToolDraw {
		t.Fatalf("toggling off from the crop tool falls back to draw, got %q", c.Tool())
	}
}

func TestCropHoverCursor(t *testing.T) {
	c := croppedController(t)
	c.PointerMove(Pointer{X: 110, Y: 110})
	if !c.HoveringCropHandle() || c.Cursor() != CursorNWSE {
		t.Fatalf("hover = %v cursor = %q", c.HoveringCropHandle(), c.Cursor())
	}
	c.PointerMove(Pointer{X: 60, Y: 60})
	if c.HoveringCropHandle() || c.Cursor() != CursorMove {
		t.Fatalf("hover = %v cursor = %q", c.HoveringCropHandle(), c.Cursor())
	}
}

func TestCropEdgeFromOtherTool(t *testing.T) {
	c := croppedController(t)
	c.ChangeTool(ToolRect)
	c.PointerDown(Pointer{X: 60, Y: 110})
	c.PointerMove(Pointer{X: 60, Y: 150})
	c.PointerUp(Pointer{X: 60, Y: 150})
	if r, _ := c.CropRect(); r.H != 140 {
		t.Fatalf("crop edge should stay grabbable, got %+v", r)
	}
	if len(c.Scene()) != 0 {
		t.Fatal("edge grab must not draw a rect")
	}
	drag(c, 40, 40, 80, 80)
	if len(c.Scene()) != 1 {
		t.Fatal("drawing inside the crop rect with another tool should work")
	}
}
