//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/example/annotator/internal/export"
)

func TestWriteWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	if err := WriteText("hello world"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	var tr Transport
	_, err := tr.Publish(context.Background(), export.Item{PNG: []byte{1}, Text: "prompt"})
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if err := tr.Wait(context.Background()); err != nil {
		t.Fatalf("Wait without content should return at once, got %v", err)
	}
}

func TestPublishHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var tr Transport
	if _, err := tr.Publish(ctx, export.Item{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTargetsListsAvailableFormats(t *testing.T) {
	c := &x11Clipboard{atoms: atomSet{targets: 1, png: 2, utf8: 3, textPlain: 4}}
	if got := c.targets(nil, []byte{1}); len(got) != 2 || got[1] != 2 {
		t.Fatalf("image only targets = %v", got)
	}
	if got := c.targets([]byte("x"), []byte{1}); len(got) != 5 {
		t.Fatalf("image and text targets = %v", got)
	}
}

func TestReadWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	if _, err := ReadText(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadText: expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadImage: expected errNoDisplay, got %v", err)
	}
}

func TestPickSingleFormat(t *testing.T) {
	f := pickSingleFormat([]byte{1, 2}, []byte("prompt"))
	if !f.image || len(f.data) != 2 || !f.droppedText {
		t.Fatalf("image and text = %+v", f)
	}
	f = pickSingleFormat([]byte{1}, nil)
	if !f.image || f.droppedText {
		t.Fatalf("image only = %+v", f)
	}
	f = pickSingleFormat(nil, []byte("prompt"))
	if f.image || string(f.data) != "prompt" || f.droppedText {
		t.Fatalf("text only = %+v", f)
	}
}
