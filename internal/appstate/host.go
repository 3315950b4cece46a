package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/notify"
	"github.com/example/annotator/internal/theme"
)

const (
	bottomHeight = 24

	doubleClickTime = 400 * time.Millisecond
	doubleClickDist = 4

	messageDuration = 2 * time.Second
	copyTimeout     = 30 * time.Second

	minZoom  = 0.1
	maxZoom  = 8
	zoomStep = 1.25
)

// copyResult is delivered to the event loop when an asynchronous copy ends.
type copyResult struct {
	receipt export.Receipt
	err     error
}

// clickTracker counts consecutive presses close in time and space.
type clickTracker struct {
	at    time.Time
	x, y  float64
	count int
}

func (t *clickTracker) press(x, y float64, now time.Time) int {
	if t.count > 0 && now.Sub(t.at) <= doubleClickTime &&
		math.Abs(x-t.x) <= doubleClickDist && math.Abs(y-t.y) <= doubleClickDist {
		t.count++
	} else {
		t.count = 1
	}
	t.at, t.x, t.y = now, x, y
	return t.count
}

// hostAction is a window level shortcut handled before the canvas sees the key.
type hostAction struct {
	name string
	keys []canvas.KeyShortcut
	run  func(*host)
}

func ctrlOrCmd(r rune, code key.Code) []canvas.KeyShortcut {
	return []canvas.KeyShortcut{
		{Rune: r, Code: code, Modifiers: key.ModControl},
		{Rune: r, Code: code, Modifiers: key.ModMeta},
	}
}

func hostActions() []hostAction {
	actions := []hostAction{
		{"save", ctrlOrCmd('s', key.CodeS), (*host).save},
		{"copy", ctrlOrCmd('c', key.CodeC), (*host).copy},
		{"clear", []canvas.KeyShortcut{
			{Code: key.CodeDeleteBackspace, Modifiers: key.ModControl},
			{Code: key.CodeDeleteBackspace, Modifiers: key.ModMeta},
		}, (*host).clear},
		{"font-down", []canvas.KeyShortcut{{Rune: '['}}, func(h *host) { h.ctrl.AdjustFontSize(-canvas.FontSizeStep) }},
		{"font-up", []canvas.KeyShortcut{{Rune: ']'}}, func(h *host) { h.ctrl.AdjustFontSize(canvas.FontSizeStep) }},
		{"zoom-in", []canvas.KeyShortcut{{Rune: '='}, {Rune: '+', Modifiers: key.ModShift}}, func(h *host) { h.zoomBy(zoomStep) }},
		{"zoom-out", []canvas.KeyShortcut{{Rune: '-'}}, func(h *host) { h.zoomBy(1 / zoomStep) }},
		{"zoom-fit", []canvas.KeyShortcut{{Rune: '0'}}, func(h *host) { h.fixedZoom = 0; h.resize(h.width, h.height) }},
	}
	for i, p := range annotation.Palette() {
		col := p.Color
		actions = append(actions, hostAction{
			name: "color-" + p.Name,
			keys: []canvas.KeyShortcut{{Rune: rune('1' + i)}},
			run:  func(h *host) { h.ctrl.SetColor(col) },
		})
	}
	return actions
}

// host owns the controller for one window and everything the window adds
// around it: zoom, save and copy, and the status message.
type host struct {
	ctrl     *canvas.Controller
	bg       *image.RGBA
	output   string
	session  *export.Session
	notifier *notify.Notifier
	theme    *theme.Theme
	log      *slog.Logger

	width, height int
	zoom          float64
	fixedZoom     float64

	clicks  clickTracker
	pressed bool
	copying bool

	message      string
	messageErr   bool
	messageUntil time.Time

	// post delivers a value to the event loop from another goroutine.
	post func(any)
	now  func() time.Time
}

func (h *host) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

// fitZoom returns the zoom that fits the image in the area above the
// status bar.
func fitZoom(img *image.RGBA, winW, winH int) float64 {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 1
	}
	zx := float64(winW) / float64(b.Dx())
	zy := float64(winH-bottomHeight) / float64(b.Dy())
	z := math.Min(zx, zy)
	if z <= 0 {
		return 1
	}
	return z
}

func (h *host) resize(w, hgt int) {
	h.width, h.height = w, hgt
	h.zoom = h.fixedZoom
	if h.zoom <= 0 {
		h.zoom = fitZoom(h.bg, w, hgt)
	}
	h.ctrl.SetScale(h.zoom)
	h.ctrl.SetViewport(annotation.Point{}, float64(w), float64(hgt-bottomHeight))
}

func (h *host) zoomBy(f float64) {
	h.fixedZoom = math.Max(minZoom, math.Min(maxZoom, h.zoom*f))
	h.resize(h.width, h.height)
}

// imageRect is where the zoomed image sits in the window.
func (h *host) imageRect() image.Rectangle {
	b := h.bg.Bounds()
	return image.Rect(0, 0, int(float64(b.Dx())*h.zoom), int(float64(b.Dy())*h.zoom))
}

func (h *host) onSurface(x, y float32) bool {
	return x >= 0 && y >= 0 && int(x) < h.width && int(y) < h.height-bottomHeight
}

// pointer forwards a mouse event to the controller. It reports whether the
// frame needs repainting.
func (h *host) pointer(e mouse.Event) bool {
	ev := canvas.Pointer{X: float64(e.X), Y: float64(e.Y), Modifiers: e.Modifiers}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if h.message != "" && h.clock().Before(h.messageUntil) {
			h.messageUntil = time.Time{}
		}
		h.pressed = true
		ev.Clicks = h.clicks.press(ev.X, ev.Y, h.clock())
		if hd := h.ctrl.TextHandleAt(ev); hd != canvas.HandleNone {
			h.ctrl.BeginTextResize(hd, ev)
			return true
		}
		h.ctrl.PointerDown(ev)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !h.pressed {
			return false
		}
		h.pressed = false
		if h.onSurface(e.X, e.Y) {
			h.ctrl.PointerUp(ev)
		} else {
			h.ctrl.ReleaseOutside()
		}
	case mouse.DirNone:
		h.ctrl.PointerMove(ev)
	default:
		return false
	}
	return true
}

func (h *host) editing() bool {
	return h.ctrl.EditingText() || h.ctrl.CommentInput().Visible
}

// key handles a key press. Window shortcuts are ignored while a text box or
// comment input has focus.
func (h *host) key(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if !h.editing() {
		for _, a := range hostActions() {
			for _, k := range a.keys {
				if k.Matches(e) {
					h.log.Debug("shortcut", slog.String("action", a.name))
					a.run(h)
					return true
				}
			}
		}
	}
	return h.ctrl.HandleKey(e)
}

func (h *host) crop() *annotation.Box {
	if r, ok := h.ctrl.CropRect(); ok {
		return &r
	}
	return nil
}

func (h *host) status(msg string) {
	h.message = msg
	h.messageErr = false
	h.messageUntil = h.clock().Add(messageDuration)
}

func (h *host) fail(op string, err error) {
	h.log.Error(op+" failed", slog.Any("err", err))
	h.message = fmt.Sprintf("%s: %v", op, err)
	h.messageErr = true
	h.messageUntil = h.clock().Add(2 * messageDuration)
}

func (h *host) save() {
	img, err := export.Rasterize(h.bg, h.ctrl.Scene(), h.crop(), h.ctrl.Scale())
	if err != nil {
		h.fail("save", err)
		return
	}
	if err := export.SavePNG(h.output, img); err != nil {
		h.fail("save", err)
		return
	}
	h.log.Info("saved", slog.String("path", h.output))
	h.status("saved " + h.output)
	if h.notifier != nil {
		go h.notifier.Save(h.output)
	}
}

// copy starts an export to the clipboard. The result arrives later as a
// copyResult through post.
func (h *host) copy() {
	if h.session == nil {
		h.fail("copy", errors.New("no clipboard transport"))
		return
	}
	if h.copying || h.session.Busy() {
		h.status("copy in progress")
		return
	}
	req := export.Request{Background: h.bg, Scene: h.ctrl.Scene(), Crop: h.crop(), Scale: h.ctrl.Scale()}
	h.copying = true
	h.status("copying")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
		defer cancel()
		rc, err := h.session.Copy(ctx, req)
		h.post(copyResult{receipt: rc, err: err})
	}()
}

func (h *host) copied(r copyResult) {
	h.copying = false
	if r.err != nil {
		h.fail("copy", r.err)
		return
	}
	msg := "image copied to clipboard"
	if r.receipt.Text {
		msg = "image and prompt copied to clipboard"
	}
	h.status(msg)
	if h.notifier != nil {
		go h.notifier.Copy("image", r.receipt.Text)
	}
}

func (h *host) clear() {
	h.ctrl.ClearAll()
	h.status("cleared")
}
