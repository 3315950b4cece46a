package render

import (
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	textFont *sfnt.Font
	fontErr  error
)

func loadFont() (*sfnt.Font, error) {
	fontOnce.Do(func() {
		textFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return textFont, fontErr
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(size * 64))
}

// MeasureString returns the advance width of s set at size pixels. Only the
// first line of s is considered.
func MeasureString(s string, size float64) float64 {
	f, err := loadFont()
	if err != nil || size <= 0 {
		return 0
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	var buf sfnt.Buffer
	em := ppem(size)
	var width fixed.Int26_6
	var prev sfnt.GlyphIndex
	for i, r := range []rune(s) {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.Kern(&buf, prev, idx, em, font.HintingNone); err == nil {
				width += k
			}
		}
		if adv, err := f.GlyphAdvance(&buf, idx, em, font.HintingNone); err == nil {
			width += adv
		}
		prev = idx
	}
	return float64(width) / 64
}

// textPath builds glyph outlines for one line whose em box top sits at top.
func textPath(s string, x, top, size float64) rasterx.Path {
	var path rasterx.Path
	f, err := loadFont()
	if err != nil || size <= 0 || s == "" {
		return path
	}
	var buf sfnt.Buffer
	em := ppem(size)
	baseline := top
	if m, err := f.Metrics(&buf, em, font.HintingNone); err == nil {
		baseline += float64(m.Ascent) / 64
	}
	penX := x
	var prev sfnt.GlyphIndex
	for i, r := range []rune(s) {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.Kern(&buf, prev, idx, em, font.HintingNone); err == nil {
				penX += float64(k) / 64
			}
		}
		if segs, err := f.LoadGlyph(&buf, idx, em, nil); err == nil {
			appendGlyph(&path, segs, penX, baseline)
		}
		if adv, err := f.GlyphAdvance(&buf, idx, em, font.HintingNone); err == nil {
			penX += float64(adv) / 64
		}
		prev = idx
	}
	return path
}

func appendGlyph(path *rasterx.Path, segs sfnt.Segments, ox, oy float64) {
	pt := func(p fixed.Point26_6) fixed.Point26_6 {
		return rasterx.ToFixedP(ox+float64(p.X)/64, oy+float64(p.Y)/64)
	}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				path.Stop(true)
			}
			path.Start(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			path.Line(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			path.QuadBezier(pt(seg.Args[0]), pt(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			path.CubeBezier(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	if open {
		path.Stop(true)
	}
}

// outlinedText draws lines of text with a white outline under a coloured
// fill. Line i has its em box top at y + i*step.
func (p *painter) outlinedText(lines []string, x, y, size, step, outline float64, c color.Color) {
	for i, line := range lines {
		path := textPath(line, x, y+float64(i)*step, size)
		p.stroke(path, pen{width: outline, color: color.White, cap: rasterx.RoundCap, join: rasterx.Round})
		p.fill(path, c)
	}
}
