package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/annotator/internal/clipboard"
	"github.com/example/annotator/internal/log"
)

// loadImage decodes the image at path, or the clipboard image when
// fromClipboard is set.
func loadImage(path string, fromClipboard bool) (*image.RGBA, error) {
	var src image.Image
	if fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		src = img
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.L().Warn("close image", slog.String("path", path), slog.Any("err", cerr))
			}
		}()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		src = img
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba, nil
}

// defaultOutput names the annotated copy of input. Without an input the
// file is called annotated.png. A configured save directory wins over the
// input's directory.
func defaultOutput(input, saveDir string) string {
	name := "annotated.png"
	dir := ""
	if input != "" {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base)) + "-annotated.png"
		dir = filepath.Dir(input)
	}
	if saveDir != "" {
		dir = saveDir
	}
	if dir == "" || dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
