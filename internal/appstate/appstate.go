// Package appstate hosts the annotation canvas in a shiny window. It turns
// x/mobile mouse and key events into controller calls and paints the
// rendered scene with the crop, text box and comment overlays on top.
package appstate

import (
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/log"
	"github.com/example/annotator/internal/notify"
	"github.com/example/annotator/internal/theme"
)

// AppState holds application configuration for the UI.
type AppState struct {
	Image  *image.RGBA
	Output string
	Scale  float64
	Color  color.RGBA
	Theme  *theme.Theme

	session      *export.Session
	notifier     *notify.Notifier
	historyLimit int
	log          *slog.Logger

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the background image being annotated.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the file written by the save shortcut.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithScale fixes the zoom factor. Zero fits the image to the window.
func WithScale(s float64) Option { return func(a *AppState) { a.Scale = s } }

// WithColor sets the initial drawing colour.
func WithColor(c color.RGBA) Option { return func(a *AppState) { a.Color = c } }

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithSession sets the export session used by the copy shortcut.
func WithSession(s *export.Session) Option { return func(a *AppState) { a.session = s } }

// WithNotifier sets the desktop notifier for saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithHistoryLimit caps the undo history.
func WithHistoryLimit(n int) Option { return func(a *AppState) { a.historyLimit = n } }

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option { return func(a *AppState) { a.log = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output: "annotated.png",
		Color:  annotation.DefaultColor(),
		Theme:  theme.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = log.WithComponent("appstate")
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// newHost builds the event translator for a window of the given size.
func (a *AppState) newHost(width, height int) *host {
	b := a.Image.Bounds()
	opts := []canvas.Option{
		canvas.WithColor(a.Color),
		canvas.WithImageSize(float64(b.Dx()), float64(b.Dy())),
		canvas.WithLogger(log.WithComponent("canvas")),
	}
	if a.historyLimit > 0 {
		opts = append(opts, canvas.WithHistoryLimit(a.historyLimit))
	}
	h := &host{
		ctrl:      canvas.New(opts...),
		bg:        a.Image,
		output:    a.Output,
		session:   a.session,
		notifier:  a.notifier,
		theme:     a.Theme,
		log:       a.log,
		fixedZoom: a.Scale,
		post:      func(any) {},
	}
	h.resize(width, height)
	return h
}
