package appstate

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window until it is closed or the canvas asks to close.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()
	if a.Image == nil {
		a.log.Error("no image to annotate")
		return
	}

	zoom := a.Scale
	if zoom <= 0 {
		zoom = 1
	}
	b := a.Image.Bounds()
	width := int(float64(b.Dx()) * zoom)
	height := int(float64(b.Dy())*zoom) + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Annotator"})
	if err != nil {
		a.log.Error("new window", slog.Any("err", err))
		return
	}
	defer w.Release()

	h := a.newHost(width, height)
	h.post = func(v any) { w.Send(v) }

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, a.log)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	repaint := func() { w.Send(paint.Event{}) }
	expire := func() {
		time.AfterFunc(messageDuration, repaint)
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			h.resize(e.WidthPx, e.HeightPx)
			repaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := h.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if h.pointer(e) {
				repaint()
			}
		case key.Event:
			msg := h.message
			if h.key(e) {
				repaint()
				if h.message != msg {
					expire()
				}
			}
			if h.ctrl.Closed() {
				return
			}
		case copyResult:
			h.copied(e)
			expire()
			repaint()
		case error:
			a.log.Error("window", slog.Any("err", e))
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, l *slog.Logger) {
	buf, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		l.Error("new buffer", slog.Any("err", err))
		return
	}
	defer buf.Release()
	if !renderFrame(ctx, buf.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}
