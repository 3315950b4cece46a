//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"sync"

	"golang.design/x/clipboard"

	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/log"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	if !hasDisplay() {
		return errNoDisplay
	}
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// publish prefers the X11 selection owner, which can offer the image and
// text at once. Without an X display only the image is written.
func publish(image, text []byte) (export.Receipt, <-chan struct{}, error) {
	if os.Getenv("DISPLAY") != "" {
		if c, err := x11Backend(); err == nil {
			lost, err := c.write(image, text)
			if err != nil {
				return export.Receipt{}, nil, err
			}
			return export.Receipt{Image: len(image) > 0, Text: len(text) > 0}, lost, nil
		}
	}
	if err := ensureInit(); err != nil {
		return export.Receipt{}, nil, err
	}
	f := pickSingleFormat(image, text)
	if f.droppedText {
		log.WithComponent("clipboard").Debug("no X selection owner, prompt text not offered",
			slog.Int("text_bytes", len(text)))
	}
	if !f.image {
		return export.Receipt{Text: true}, clipboard.Write(clipboard.FmtText, f.data), nil
	}
	return export.Receipt{Image: true}, clipboard.Write(clipboard.FmtImage, f.data), nil
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return string(data), nil
}
