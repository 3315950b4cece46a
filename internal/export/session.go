package export

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/log"
)

// DefaultPrompt accompanies the first copy of a session.
const DefaultPrompt = "Please modify based on the information in the screenshot."

// ErrBusy is returned when an export starts while another is pending.
var ErrBusy = errors.New("export: another export is in progress")

// Item is what a Transport publishes: the encoded image and optional text.
type Item struct {
	PNG  []byte
	Text string
}

// Receipt reports which parts of an Item reached the destination.
type Receipt struct {
	Image bool
	Text  bool
}

// Transport hands an exported item to another application.
type Transport interface {
	Publish(ctx context.Context, it Item) (Receipt, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, it Item) (Receipt, error)

func (f TransportFunc) Publish(ctx context.Context, it Item) (Receipt, error) { return f(ctx, it) }

// Request describes what to export.
type Request struct {
	Background image.Image
	Scene      annotation.Scene
	Crop       *annotation.Box
	Scale      float64
}

// Session tracks exports for one annotation session. The prompt text rides
// along with copies until one copy delivers it.
type Session struct {
	transport  Transport
	prompt     string
	promptSent atomic.Bool
	busy       atomic.Bool
	log        *slog.Logger
}

// NewSession returns a session publishing through t. An empty prompt
// disables the prompt text.
func NewSession(t Transport, prompt string) *Session {
	return &Session{transport: t, prompt: prompt, log: log.WithComponent("export")}
}

// PromptSent reports whether the prompt text has been delivered.
func (s *Session) PromptSent() bool { return s.promptSent.Load() }

// Busy reports whether an export is pending.
func (s *Session) Busy() bool { return s.busy.Load() }

// Copy rasterizes req and publishes it. The scene is only read.
func (s *Session) Copy(ctx context.Context, req Request) (Receipt, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Receipt{}, ErrBusy
	}
	defer s.busy.Store(false)

	img, err := Rasterize(req.Background, req.Scene, req.Crop, req.Scale)
	if err != nil {
		return Receipt{}, err
	}
	data, err := EncodePNG(img)
	if err != nil {
		return Receipt{}, err
	}
	it := Item{PNG: data}
	if s.prompt != "" && !s.promptSent.Load() {
		it.Text = s.prompt
	}
	rc, err := s.transport.Publish(ctx, it)
	if err != nil {
		s.log.Warn("publish failed", slog.Any("err", err))
		return rc, err
	}
	if it.Text != "" && rc.Text {
		s.promptSent.Store(true)
	}
	s.log.Info("exported", slog.Int("bytes", len(data)), slog.Bool("prompt", it.Text != "" && rc.Text))
	return rc, nil
}
