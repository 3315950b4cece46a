package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/log"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func newTestHost(t *testing.T, opts ...Option) *host {
	t.Helper()
	opts = append([]Option{WithImage(whiteImage(200, 100)), WithScale(1), WithLogger(log.Discard())}, opts...)
	a := New(opts...)
	h := a.newHost(200, 100+bottomHeight)
	now := time.Unix(1000, 0)
	h.now = func() time.Time { return now }
	return h
}

func mouseAt(h *host, dir mouse.Direction, x, y float32) {
	h.pointer(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: dir})
}

func dragTo(h *host, x0, y0, x1, y1 float32) {
	mouseAt(h, mouse.DirPress, x0, y0)
	mouseAt(h, mouse.DirNone, (x0+x1)/2, (y0+y1)/2)
	mouseAt(h, mouse.DirNone, x1, y1)
	mouseAt(h, mouse.DirRelease, x1, y1)
}

func typeKey(h *host, r rune, code key.Code, mods key.Modifiers) bool {
	return h.key(key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress})
}

func TestClickTracker(t *testing.T) {
	var ct clickTracker
	t0 := time.Unix(0, 0)
	if n := ct.press(10, 10, t0); n != 1 {
		t.Fatalf("first press = %d", n)
	}
	if n := ct.press(12, 11, t0.Add(100*time.Millisecond)); n != 2 {
		t.Fatalf("quick second press = %d", n)
	}
	if n := ct.press(40, 40, t0.Add(200*time.Millisecond)); n != 1 {
		t.Fatalf("distant press = %d", n)
	}
	if n := ct.press(40, 40, t0.Add(time.Second)); n != 1 {
		t.Fatalf("late press = %d", n)
	}
}

func TestFitZoom(t *testing.T) {
	img := whiteImage(200, 100)
	if z := fitZoom(img, 400, 200+bottomHeight); z != 2 {
		t.Fatalf("fitZoom = %v, want 2", z)
	}
	if z := fitZoom(img, 100, 400); z != 0.5 {
		t.Fatalf("fitZoom = %v, want 0.5", z)
	}
}

func TestPointerDrawsRect(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 'h', key.CodeH, 0)
	dragTo(h, 10, 10, 60, 40)
	scene := h.ctrl.Scene()
	if len(scene) != 1 {
		t.Fatalf("expected one annotation, got %d", len(scene))
	}
	r, ok := scene[0].(annotation.Rect)
	if !ok {
		t.Fatalf("expected rect, got %T", scene[0])
	}
	if r.X != 10 || r.Y != 10 || r.W != 50 || r.H != 30 {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestReleaseOffSurfaceDiscardsDraft(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 'h', key.CodeH, 0)
	mouseAt(h, mouse.DirPress, 10, 10)
	mouseAt(h, mouse.DirNone, 150, 90)
	mouseAt(h, mouse.DirRelease, 500, 500)
	if len(h.ctrl.Scene()) != 0 || h.ctrl.Draft() != nil {
		t.Fatalf("release outside should discard the rect draft")
	}
	if h.pressed {
		t.Fatalf("button state not cleared")
	}
}

func TestZoomedPointerUsesCanvasUnits(t *testing.T) {
	h := newTestHost(t, WithScale(2))
	typeKey(h, 'h', key.CodeH, 0)
	dragTo(h, 20, 20, 120, 80)
	r := h.ctrl.Scene()[0].(annotation.Rect)
	if r.X != 10 || r.W != 50 || r.H != 30 {
		t.Fatalf("unexpected rect at zoom 2: %+v", r)
	}
}

func TestDoubleClickEditsText(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 't', key.CodeT, 0)
	mouseAt(h, mouse.DirPress, 20, 20)
	mouseAt(h, mouse.DirRelease, 20, 20)
	typeKey(h, 'h', key.CodeH, 0)
	typeKey(h, 'i', key.CodeI, 0)
	typeKey(h, 0, key.CodeReturnEnter, key.ModControl)
	if len(h.ctrl.Scene()) != 1 || h.ctrl.EditingText() {
		t.Fatalf("text not committed")
	}

	typeKey(h, 'v', key.CodeV, 0)
	mouseAt(h, mouse.DirPress, 30, 30)
	mouseAt(h, mouse.DirRelease, 30, 30)
	mouseAt(h, mouse.DirPress, 30, 30)
	buf, ok := h.ctrl.TextBuffer()
	if !ok || buf.Content != "hi" {
		t.Fatalf("double click should reopen the text, got %+v %v", buf, ok)
	}
}

func TestHostShortcutsIgnoredWhileEditing(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 't', key.CodeT, 0)
	mouseAt(h, mouse.DirPress, 20, 20)
	typeKey(h, '[', key.CodeLeftSquareBracket, 0)
	typeKey(h, '1', key.Code1, 0)
	buf, _ := h.ctrl.TextBuffer()
	if buf.Content != "[1" {
		t.Fatalf("buffer = %q, want %q", buf.Content, "[1")
	}
	if h.ctrl.Color() != annotation.DefaultColor() {
		t.Fatalf("colour changed while editing")
	}
}

func TestDigitPicksPaletteColour(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, '7', key.Code7, 0)
	want := annotation.Palette()[6].Color
	if h.ctrl.Color() != want {
		t.Fatalf("colour = %v, want %v", h.ctrl.Color(), want)
	}
}

func TestSaveShortcut(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	h := newTestHost(t, WithOutput(out))
	typeKey(h, 'h', key.CodeH, 0)
	dragTo(h, 10, 10, 60, 40)
	if !typeKey(h, 's', key.CodeS, key.ModControl) {
		t.Fatalf("save shortcut not handled")
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected saved file: %v", err)
	}
	if !strings.HasPrefix(h.message, "saved ") || h.messageErr {
		t.Fatalf("unexpected status %q", h.message)
	}
}

func TestCopyShortcutReportsPrompt(t *testing.T) {
	var got export.Item
	tr := export.TransportFunc(func(_ context.Context, it export.Item) (export.Receipt, error) {
		got = it
		return export.Receipt{Image: true, Text: it.Text != ""}, nil
	})
	h := newTestHost(t, WithSession(export.NewSession(tr, "fix this")))
	results := make(chan any, 1)
	h.post = func(v any) { results <- v }

	typeKey(h, 'c', key.CodeC, key.ModControl)
	var res copyResult
	select {
	case v := <-results:
		res = v.(copyResult)
	case <-time.After(5 * time.Second):
		t.Fatalf("copy did not finish")
	}
	h.copied(res)
	if got.Text != "fix this" || len(got.PNG) == 0 {
		t.Fatalf("unexpected item: text %q, %d bytes", got.Text, len(got.PNG))
	}
	if h.message != "image and prompt copied to clipboard" {
		t.Fatalf("status = %q", h.message)
	}
}

func TestCopyWithoutSessionFails(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 'c', key.CodeC, key.ModControl)
	if !h.messageErr {
		t.Fatalf("expected an error status, got %q", h.message)
	}
}

func TestClearShortcut(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 'h', key.CodeH, 0)
	dragTo(h, 10, 10, 60, 40)
	typeKey(h, 0, key.CodeDeleteBackspace, key.ModControl)
	if len(h.ctrl.Scene()) != 0 || h.ctrl.CanUndo() {
		t.Fatalf("clear should empty the scene and history")
	}
}

func TestRenderFrameCropMask(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 'k', key.CodeK, 0)
	dragTo(h, 2, 2, 40, 40)
	if _, ok := h.ctrl.CropRect(); !ok {
		t.Fatalf("crop rect not set")
	}
	st := h.snapshot()
	dst := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	if !renderFrame(context.Background(), dst, st) {
		t.Fatalf("frame cancelled")
	}
	inside := dst.RGBAAt(20, 20)
	outside := dst.RGBAAt(150, 80)
	if inside != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("inside crop = %v, want white", inside)
	}
	if outside.R >= 200 {
		t.Fatalf("outside crop not dimmed: %v", outside)
	}
	bar := dst.RGBAAt(100, h.height-2)
	if bar != h.theme.StatusBackground {
		t.Fatalf("status bar = %v", bar)
	}
}

func TestRenderFrameCancelled(t *testing.T) {
	h := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	if renderFrame(ctx, dst, h.snapshot()) {
		t.Fatalf("expected cancelled frame")
	}
}

func TestSnapshotHidesEditedText(t *testing.T) {
	h := newTestHost(t)
	typeKey(h, 't', key.CodeT, 0)
	mouseAt(h, mouse.DirPress, 20, 20)
	typeKey(h, 'a', key.CodeA, 0)
	typeKey(h, 0, key.CodeReturnEnter, key.ModMeta)
	typeKey(h, 'v', key.CodeV, 0)
	mouseAt(h, mouse.DirPress, 25, 25)
	mouseAt(h, mouse.DirRelease, 25, 25)
	mouseAt(h, mouse.DirPress, 25, 25)

	st := h.snapshot()
	if len(st.scene) != 0 {
		t.Fatalf("edited text should be hidden from the scene, got %d", len(st.scene))
	}
	if _, ok := st.draft.(annotation.Text); !ok || st.buffer == nil {
		t.Fatalf("buffer preview should be drawn as the draft")
	}
	if st.tool != canvas.ToolSelect {
		t.Fatalf("tool = %s", st.tool)
	}
}

func TestCopyIgnoredWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	calls := make(chan struct{}, 4)
	tr := export.TransportFunc(func(ctx context.Context, it export.Item) (export.Receipt, error) {
		calls <- struct{}{}
		<-release
		return export.Receipt{Image: true}, nil
	})
	h := newTestHost(t, WithSession(export.NewSession(tr, "")))
	results := make(chan any, 2)
	h.post = func(v any) { results <- v }

	typeKey(h, 'c', key.CodeC, key.ModControl)
	typeKey(h, 'c', key.CodeC, key.ModControl)
	if h.message != "copy in progress" || h.messageErr {
		t.Fatalf("second copy status = %q (err %v)", h.message, h.messageErr)
	}
	close(release)
	var res copyResult
	select {
	case v := <-results:
		res = v.(copyResult)
	case <-time.After(5 * time.Second):
		t.Fatalf("copy did not finish")
	}
	h.copied(res)
	if len(calls) != 1 {
		t.Fatalf("transport called %d times, want 1", len(calls))
	}
	if h.message != "image copied to clipboard" {
		t.Fatalf("status = %q", h.message)
	}

	typeKey(h, 'c', key.CodeC, key.ModControl)
	select {
	case <-results:
	case <-time.After(5 * time.Second):
		t.Fatalf("copy after completion did not run")
	}
	if len(calls) != 2 {
		t.Fatalf("transport called %d times, want 2", len(calls))
	}
}
