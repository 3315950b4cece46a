package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/example/annotator/internal/annotation"
)

func whiteBackground(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func diffCount(a, b *image.RGBA) int {
	n := 0
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			n++
		}
	}
	return n
}

func TestArrowHeadGeometry(t *testing.T) {
	h, ok := ArrowHead(0, 0, 100, 0)
	if !ok {
		t.Fatal("expected head for long arrow")
	}
	wantBaseX := 100 - 22*math.Cos(math.Pi/5.5)
	if math.Abs(h.Base.X-wantBaseX) > 1e-9 || math.Abs(h.Base.Y) > 1e-9 {
		t.Fatalf("base = %+v, want (%v,0)", h.Base, wantBaseX)
	}
	if math.Abs(h.Left.Y+h.Right.Y) > 1e-9 {
		t.Fatalf("head not symmetric: left %+v right %+v", h.Left, h.Right)
	}
	if d := math.Hypot(h.Tip.X-h.Left.X, h.Tip.Y-h.Left.Y); math.Abs(d-22) > 1e-9 {
		t.Fatalf("head length = %v, want 22", d)
	}
}

func TestArrowHeadShortArrow(t *testing.T) {
	h, ok := ArrowHead(0, 0, 0, 10)
	if !ok {
		t.Fatal("expected head")
	}
	if d := math.Hypot(h.Tip.X-h.Right.X, h.Tip.Y-h.Right.Y); math.Abs(d-3.5) > 1e-9 {
		t.Fatalf("head length = %v, want 3.5", d)
	}
	if _, ok := ArrowHead(5, 5, 5.5, 5.5); ok {
		t.Fatal("sub-unit arrow should not be drawn")
	}
}

func TestSceneBackgroundScaled(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(bg, bg.Bounds(), &image.Uniform{color.RGBA{200, 10, 10, 255}}, image.Point{}, draw.Src)
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Scene(dst, bg, nil, nil, nil, 1)
	if got := dst.RGBAAt(19, 19); got != (color.RGBA{200, 10, 10, 255}) {
		t.Fatalf("corner pixel = %+v", got)
	}
}

func TestSceneRectFillAndOutside(t *testing.T) {
	bg := whiteBackground(100, 100)
	c, _ := annotation.ParseColor("#39FF14")
	scene := annotation.Scene{annotation.Rect{Base: annotation.Base{ID: "r", Color: c}, X: 20, Y: 20, W: 60, H: 40}}
	dst := Image(bg, scene, 1)
	if got := dst.RGBAAt(50, 40); got == (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("rect interior not tinted")
	}
	if got := dst.RGBAAt(5, 90); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("outside pixel changed: %+v", got)
	}
}

func TestSceneDraftAndSelection(t *testing.T) {
	bg := whiteBackground(100, 100)
	rect := annotation.Rect{Base: annotation.Base{ID: "r", Color: annotation.DefaultColor()}, X: 20, Y: 20, W: 40, H: 40}
	base := image.NewRGBA(bg.Bounds())
	Scene(base, bg, annotation.Scene{rect}, nil, nil, 1)

	withDraft := image.NewRGBA(bg.Bounds())
	draft := annotation.Arrow{Base: annotation.Base{Color: annotation.DefaultColor()}, X1: 5, Y1: 90, X2: 95, Y2: 90, Width: 3}
	Scene(withDraft, bg, annotation.Scene{rect}, draft, nil, 1)
	if diffCount(base, withDraft) == 0 {
		t.Fatal("draft was not drawn")
	}

	selected := image.NewRGBA(bg.Bounds())
	Scene(selected, bg, annotation.Scene{rect}, nil, annotation.NewSelection("r", "missing"), 1)
	if diffCount(base, selected) == 0 {
		t.Fatal("selection border was not drawn")
	}
}

func TestSceneText(t *testing.T) {
	bg := whiteBackground(200, 60)
	empty := Image(bg, nil, 1)
	txt := annotation.Text{Base: annotation.Base{ID: "t", Color: annotation.DefaultColor()}, X: 5, Y: 5, W: 150, H: 40, Content: "Hi\nthere", FontSize: 20}
	got := Image(bg, annotation.Scene{txt}, 1)
	if diffCount(empty, got) == 0 {
		t.Fatal("text was not drawn")
	}
	blank := Image(bg, annotation.Scene{annotation.Text{Base: txt.Base, X: 5, Y: 5, W: 150, H: 40, FontSize: 20}}, 1)
	if diffCount(empty, blank) != 0 {
		t.Fatal("empty text should draw nothing")
	}
}

func TestSceneDegenerateShapesDrawNothing(t *testing.T) {
	bg := whiteBackground(50, 50)
	empty := Image(bg, nil, 1)
	scene := annotation.Scene{
		annotation.Freehand{Base: annotation.Base{ID: "f", Color: annotation.DefaultColor()}, Points: []annotation.Point{annotation.Pt(10, 10)}, Width: 3},
		annotation.Arrow{Base: annotation.Base{ID: "a", Color: annotation.DefaultColor()}, X1: 10, Y1: 10, X2: 10.2, Y2: 10.2, Width: 3},
	}
	if diffCount(empty, Image(bg, scene, 1)) != 0 {
		t.Fatal("degenerate shapes should not draw")
	}
}

func TestMeasureString(t *testing.T) {
	short := MeasureString("hello", 20)
	long := MeasureString("hello hello", 20)
	if short <= 0 || long <= short {
		t.Fatalf("unexpected widths short=%v long=%v", short, long)
	}
	if got := MeasureString("hello\nworld wide", 20); got != short {
		t.Fatalf("only the first line should be measured: %v vs %v", got, short)
	}
}

func TestCommentFontSize(t *testing.T) {
	if got := CommentFontSize(1); got != 17 {
		t.Fatalf("got %v", got)
	}
	if got := CommentFontSize(0.5); got != 34 {
		t.Fatalf("got %v", got)
	}
}

func inkRows(a, b *image.RGBA) int {
	rows := 0
	stride := a.Stride
	for y := 0; y < a.Bounds().Dy(); y++ {
		for i := y * stride; i < (y+1)*stride; i++ {
			if a.Pix[i] != b.Pix[i] {
				rows++
				break
			}
		}
	}
	return rows
}

func TestTextSizeIsScreenPixels(t *testing.T) {
	bg := whiteBackground(300, 120)
	empty := Image(bg, nil, 1)
	txt := annotation.Text{Base: annotation.Base{ID: "t", Color: annotation.DefaultColor()}, X: 5, Y: 5, W: 280, H: 100, Content: "Hg", FontSize: 40}
	full := inkRows(empty, Image(bg, annotation.Scene{txt}, 1))
	zoomed := inkRows(empty, Image(bg, annotation.Scene{txt}, 2))
	if full == 0 || zoomed == 0 {
		t.Fatalf("text not drawn: %d, %d rows", full, zoomed)
	}
	if zoomed*10 > full*7 {
		t.Fatalf("text at scale 2 spans %d rows, want about half of %d", zoomed, full)
	}
}
