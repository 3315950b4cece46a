package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	stdlog "log"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/render"
	"github.com/example/annotator/internal/theme"
)

const (
	handleSize = 8

	commentBoxW = 240
	commentBoxH = 136
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		stdlog.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		stdlog.Fatalf("font face: %v", err)
	}
}

// paintState is a copy of everything a frame needs so painting can run off
// the event goroutine.
type paintState struct {
	width, height int
	zoom          float64
	theme         *theme.Theme

	bg          *image.RGBA
	scene       annotation.Scene
	draft       annotation.Annotation
	sel         annotation.Selection
	crop        *annotation.Box
	cropHandles bool
	buffer      *canvas.TextBuffer
	comment     canvas.CommentInput

	tool       canvas.Tool
	color      color.RGBA
	message    string
	messageErr bool
}

func (h *host) snapshot() paintState {
	st := paintState{
		width:       h.width,
		height:      h.height,
		zoom:        h.zoom,
		theme:       h.theme,
		bg:          h.bg,
		scene:       h.ctrl.Scene(),
		draft:       h.ctrl.Draft(),
		sel:         h.ctrl.Selection(),
		crop:        h.crop(),
		cropHandles: h.ctrl.Tool() == canvas.ToolCrop || h.ctrl.CropSelected(),
		comment:     h.ctrl.CommentInput(),
		tool:        h.ctrl.Tool(),
		color:       h.ctrl.Color(),
	}
	if buf, ok := h.ctrl.TextBuffer(); ok {
		st.buffer = &buf
		if buf.ID != "" {
			st.scene = st.scene.Without(annotation.NewSelection(buf.ID))
		}
		st.draft = buf.Preview()
	}
	if h.message != "" && h.clock().Before(h.messageUntil) {
		st.message = h.message
		st.messageErr = h.messageErr
	}
	return st
}

// renderFrame paints st into dst. It returns false when ctx was cancelled
// part way through.
func renderFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	b := st.bg.Bounds()
	surface := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	render.Scene(surface, st.bg, st.scene, st.draft, st.sel, st.zoom)
	if ctx.Err() != nil {
		return false
	}

	ir := image.Rect(0, 0, int(float64(b.Dx())*st.zoom), int(float64(b.Dy())*st.zoom))
	drawCheckerboard(dst, ir.Intersect(dst.Bounds()), 8, th.CheckerLight, th.CheckerDark)
	xdraw.NearestNeighbor.Scale(dst, ir, surface, surface.Bounds(), draw.Over, nil)
	if ctx.Err() != nil {
		return false
	}

	if st.crop != nil {
		drawCrop(dst, ir, screenRect(*st.crop, st.zoom), st.cropHandles, th)
	}
	if st.buffer != nil {
		drawTextBox(dst, screenRect(annotation.Box{X: st.buffer.X, Y: st.buffer.Y, W: st.buffer.W, H: st.buffer.H}, st.zoom), th)
	}
	if st.comment.Visible {
		drawCommentInput(dst, st.comment, th)
	}
	if ctx.Err() != nil {
		return false
	}

	drawStatusBar(dst, st)
	if st.message != "" {
		drawMessage(dst, st.message, st.messageErr, th)
	}
	return ctx.Err() == nil
}

func screenRect(b annotation.Box, zoom float64) image.Rectangle {
	b = b.Normalize()
	return image.Rect(int(b.X*zoom), int(b.Y*zoom), int((b.X+b.W)*zoom), int((b.Y+b.H)*zoom))
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// drawCrop dims the image outside r and outlines it.
func drawCrop(dst *image.RGBA, img, r image.Rectangle, handles bool, th *theme.Theme) {
	mask := &image.Uniform{th.CropMask}
	for _, part := range []image.Rectangle{
		image.Rect(img.Min.X, img.Min.Y, img.Max.X, r.Min.Y),
		image.Rect(img.Min.X, r.Max.Y, img.Max.X, img.Max.Y),
		image.Rect(img.Min.X, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, img.Max.X, r.Max.Y),
	} {
		part = part.Intersect(img)
		if !part.Empty() {
			draw.Draw(dst, part, mask, image.Point{}, draw.Over)
		}
	}
	drawDashedRect(dst, r, 4, 2, th.CropBorder, color.Black)
	if !handles {
		return
	}
	for _, hr := range handleRects(r) {
		draw.Draw(dst, hr, &image.Uniform{th.CropHandle}, image.Point{}, draw.Src)
		drawRect(dst, hr, th.CropBorder, 1)
	}
}

func drawTextBox(dst *image.RGBA, r image.Rectangle, th *theme.Theme) {
	drawRect(dst, r, th.TextBoxBorder, 1)
	for _, hr := range handleRects(r) {
		draw.Draw(dst, hr, &image.Uniform{th.TextBoxHandle}, image.Point{}, draw.Src)
		drawRect(dst, hr, th.TextBoxBorder, 1)
	}
}

func drawCommentInput(dst *image.RGBA, ci canvas.CommentInput, th *theme.Theme) {
	x, y := int(ci.X), int(ci.Y)
	r := image.Rect(x, y, x+commentBoxW, y+commentBoxH)
	draw.Draw(dst, r, &image.Uniform{th.CommentBackground}, image.Point{}, draw.Over)
	drawRect(dst, r, th.CommentBorder, 1)

	text, col := ci.Text, th.CommentText
	if text == "" {
		text, col = "Add a comment\nCtrl+Enter to add, Esc to cancel", th.CommentPlaceholder
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	lineY := y + 18
	for i, line := range strings.Split(text, "\n") {
		if lineY > r.Max.Y-4 {
			break
		}
		if i == strings.Count(text, "\n") && ci.Text != "" {
			line += "|"
		}
		d.Dot = fixed.P(x+6, lineY)
		d.DrawString(line)
		lineY += 15
	}
}

func drawStatusBar(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)

	swatch := image.Rect(4, rect.Min.Y+4, 20, rect.Max.Y-4)
	draw.Draw(dst, swatch, &image.Uniform{st.color}, image.Point{}, draw.Src)
	drawRect(dst, swatch, th.Foreground, 1)

	label := fmt.Sprintf("%s  %s  %.0f%%  ^S:save  ^C:copy  ^Z:undo  Esc:close", st.tool, annotation.Hex(st.color), st.zoom*100)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(swatch.Max.X+8, rect.Min.Y+16)}
	d.DrawString(label)
}

func drawMessage(dst *image.RGBA, msg string, isErr bool, th *theme.Theme) {
	col := th.Foreground
	if isErr {
		col = th.StatusError
	}
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (b.Dx() - wmsg) / 2
	py := (b.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, col, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func handleRects(rect image.Rectangle) []image.Rectangle {
	hs := handleSize / 2
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	return []image.Rectangle{
		image.Rect(rect.Min.X-hs, rect.Min.Y-hs, rect.Min.X+hs, rect.Min.Y+hs), // nw
		image.Rect(cx-hs, rect.Min.Y-hs, cx+hs, rect.Min.Y+hs),                 // n
		image.Rect(rect.Max.X-hs, rect.Min.Y-hs, rect.Max.X+hs, rect.Min.Y+hs), // ne
		image.Rect(rect.Max.X-hs, cy-hs, rect.Max.X+hs, cy+hs),                 // e
		image.Rect(rect.Max.X-hs, rect.Max.Y-hs, rect.Max.X+hs, rect.Max.Y+hs), // se
		image.Rect(cx-hs, rect.Max.Y-hs, cx+hs, rect.Max.Y+hs),                 // s
		image.Rect(rect.Min.X-hs, rect.Max.Y-hs, rect.Min.X+hs, rect.Max.Y+hs), // sw
		image.Rect(rect.Min.X-hs, cy-hs, rect.Min.X+hs, cy+hs),                 // w
	}
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if p := image.Pt(x+dx, y+dy); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// drawHLine and drawVLine are enough for the axis-aligned chrome.
func drawHLine(img *image.RGBA, x0, x1, y int, col color.Color, thick int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		setThickPixel(img, x, y, thick, col)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, col color.Color, thick int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		setThickPixel(img, x, y, thick, col)
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawHLine(img, rect.Min.X, rect.Max.X-1, rect.Min.Y, col, thick)
	drawHLine(img, rect.Min.X, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawVLine(img, rect.Min.X, rect.Min.Y, rect.Max.Y-1, col, thick)
	drawVLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.Y-1, col, thick)
}

// drawDashedRect alternates c1 and c2 segments of length dash around rect.
func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	pick := func(i int) color.Color {
		if (i/dash)%2 == 0 {
			return c1
		}
		return c2
	}
	for i := 0; i < rect.Dx(); i++ {
		for t := 0; t < thickness; t++ {
			if p := image.Pt(rect.Min.X+i, rect.Min.Y+t); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, pick(i))
			}
			if p := image.Pt(rect.Min.X+i, rect.Max.Y-1-t); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, pick(i))
			}
		}
	}
	for i := 0; i < rect.Dy(); i++ {
		for t := 0; t < thickness; t++ {
			if p := image.Pt(rect.Min.X+t, rect.Min.Y+i); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, pick(i))
			}
			if p := image.Pt(rect.Max.X-1-t, rect.Min.Y+i); p.In(img.Bounds()) {
				img.Set(p.X, p.Y, pick(i))
			}
		}
	}
}
