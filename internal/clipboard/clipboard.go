// Package clipboard moves images and text between the annotator and the
// system clipboard. On X11 one selection owner serves the PNG and the
// prompt text together, so a paste target can pick either.
package clipboard

import (
	"context"
	"errors"
	"os"

	"github.com/example/annotator/internal/export"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// singleFormat is what a one-format clipboard receives: the image when
// there is one, otherwise the text.
type singleFormat struct {
	image       bool
	data        []byte
	droppedText bool
}

func pickSingleFormat(image, text []byte) singleFormat {
	if len(image) == 0 {
		return singleFormat{data: text}
	}
	return singleFormat{image: true, data: image, droppedText: len(text) > 0}
}

// Transport publishes export items to the system clipboard.
type Transport struct {
	replaced <-chan struct{}
}

// Publish places it on the clipboard. The returned receipt reports whether
// the text target is offered alongside the image.
func (t *Transport) Publish(ctx context.Context, it export.Item) (export.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return export.Receipt{}, err
	}
	rc, replaced, err := publish(it.PNG, []byte(it.Text))
	if err != nil {
		return export.Receipt{}, err
	}
	t.replaced = replaced
	return rc, nil
}

// Wait blocks until another application takes the clipboard or ctx is
// done. The clipboard content is served by this process, so short-lived
// commands call Wait before exiting.
func (t *Transport) Wait(ctx context.Context) error {
	if t.replaced == nil {
		return nil
	}
	select {
	case <-t.replaced:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
