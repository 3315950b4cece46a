// Package export rasterizes a committed scene for saving or handing to
// another application.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/render"
)

var (
	ErrNoBackground = errors.New("export: no background image")
	ErrEmptyCrop    = errors.New("export: crop rectangle does not overlap the image")
)

// Rasterize renders bg and scene at image resolution, without draft or
// selection overlays. A non-nil crop limits the output to that rectangle,
// rounded to whole pixels and clamped to the image. The result always has a
// zero origin.
func Rasterize(bg image.Image, scene annotation.Scene, crop *annotation.Box, scale float64) (*image.RGBA, error) {
	if bg == nil {
		return nil, ErrNoBackground
	}
	full := render.Image(bg, scene, scale)
	if crop == nil {
		return full, nil
	}
	r := cropBounds(*crop).Intersect(full.Bounds())
	if r.Empty() {
		return nil, ErrEmptyCrop
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), full, r.Min, draw.Src)
	return out, nil
}

func cropBounds(b annotation.Box) image.Rectangle {
	b = b.Normalize()
	return image.Rect(
		int(math.Round(b.X)), int(math.Round(b.Y)),
		int(math.Round(b.X+b.W)), int(math.Round(b.Y+b.H)),
	)
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WritePDF writes a single page PDF the size of img, in points, with img
// embedded as a PNG.
func WritePDF(w io.Writer, img image.Image, title string) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	pw, ph := float64(b.Dx()), float64(b.Dy())
	if pw == 0 || ph == 0 {
		return ErrEmptyCrop
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("annotated", opts, bytes.NewReader(data))
	pdf.ImageOptions("annotated", 0, 0, pw, ph, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SavePDF writes the PDF rendering of img to path.
func SavePDF(path string, img image.Image, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, img, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
