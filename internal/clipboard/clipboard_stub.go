//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"

	"github.com/example/annotator/internal/export"
)

var errUnsupported = fmt.Errorf("clipboard operations are not supported on this platform")

func publish([]byte, []byte) (export.Receipt, <-chan struct{}, error) {
	return export.Receipt{}, nil, errUnsupported
}

func WriteImage(image.Image) error { return errUnsupported }

func ReadImage() (image.Image, error) { return nil, errUnsupported }

func WriteText(string) error { return errUnsupported }

func ReadText() (string, error) { return "", errUnsupported }
