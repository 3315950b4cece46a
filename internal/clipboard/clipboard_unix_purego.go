//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/example/annotator/internal/export"
)

func publish(image, text []byte) (export.Receipt, <-chan struct{}, error) {
	c, err := x11Backend()
	if err != nil {
		return export.Receipt{}, nil, err
	}
	lost, err := c.write(image, text)
	if err != nil {
		return export.Receipt{}, nil, err
	}
	return export.Receipt{Image: len(image) > 0, Text: len(text) > 0}, lost, nil
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	c, err := x11Backend()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	_, err = c.write(buf.Bytes(), nil)
	return err
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	c, err := x11Backend()
	if err != nil {
		return nil, err
	}
	data, err := c.readSelection(c.atoms.png)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	c, err := x11Backend()
	if err != nil {
		return err
	}
	_, err = c.write(nil, []byte(text))
	return err
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	c, err := x11Backend()
	if err != nil {
		return "", err
	}
	return c.readText()
}
