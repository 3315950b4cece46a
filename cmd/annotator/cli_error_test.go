package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/config"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func testRoot() *root {
	return &root{program: "annotator", config: config.New()}
}

func TestParseDrawClipboardRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-from-clipboard", "rect", "0", "0", "10", "10"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawRejectsBadShapes(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-file", "in.png", "circle", "1", "2", "3"}, "unsupported shape"},
		{[]string{"-file", "in.png", "rect", "1", "2", "3"}, "requires 4 numeric arguments"},
		{[]string{"-file", "in.png", "rect", "1", "x", "3", "4"}, "invalid number"},
		{[]string{"-file", "in.png", "freehand", "1", "2", "3"}, "at least two x y pairs"},
		{[]string{"-file", "in.png", "text", "1", "2"}, "text requires"},
		{[]string{"-file", "in.png", "-font-size", "100", "text", "1", "2", "hi"}, "font-size"},
		{[]string{"-file", "in.png", "-scale", "0", "rect", "0", "0", "9", "9"}, "scale must be positive"},
		{[]string{"rect", "0", "0", "9", "9"}, "input file is required"},
	}
	for _, tc := range cases {
		_, err := parseDrawCmd(tc.args, nil)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("parseDrawCmd(%v) = %v, want error containing %q", tc.args, err, tc.want)
		}
	}
}

func TestSplitDrawArgsAcceptsTrailingFlagsAndNegatives(t *testing.T) {
	flags, pos, err := splitDrawArgs([]string{"arrow", "-5", "10", "20", "30", "-color", "red", "--file=in.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(flags, " ") != "-color red -file=in.png" {
		t.Fatalf("flags = %v", flags)
	}
	if strings.Join(pos, " ") != "arrow -5 10 20 30" {
		t.Fatalf("positionals = %v", pos)
	}
}

func TestDrawRendersThroughController(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100)

	cases := []struct {
		args []string
		kind annotation.Kind
	}{
		{[]string{"-file", in, "rect", "10", "10", "60", "40"}, annotation.KindRect},
		{[]string{"-file", in, "arrow", "10", "10", "60", "40"}, annotation.KindArrow},
		{[]string{"-file", in, "freehand", "10", "10", "20", "15", "30", "30"}, annotation.KindFreehand},
		{[]string{"-file", in, "text", "10", "10", "hello", "world"}, annotation.KindText},
		{[]string{"-file", in, "comment", "10", "10", "60", "40", "check", "this"}, annotation.KindComment},
	}
	for _, tc := range cases {
		d, err := parseDrawCmd(tc.args, testRoot())
		if err != nil {
			t.Fatalf("parse %v: %v", tc.args, err)
		}
		bg, err := loadImage(in, false)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		img, scene, err := d.render(bg, color.RGBA{255, 0, 0, 255})
		if err != nil {
			t.Fatalf("render %s: %v", d.shape, err)
		}
		if len(scene) != 1 || scene[0].Kind() != tc.kind {
			t.Fatalf("%s produced %v", d.shape, scene)
		}
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
			t.Fatalf("%s output size %v", d.shape, img.Bounds())
		}
	}
}

func TestDrawTextUsesFontSize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100)
	d, err := parseDrawCmd([]string{"-file", in, "-font-size", "32", "text", "5", "5", "big"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bg, _ := loadImage(in, false)
	_, scene, err := d.render(bg, annotation.DefaultColor())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if txt := scene[0].(annotation.Text); txt.FontSize != 32 || txt.Content != "big" {
		t.Fatalf("unexpected text %+v", txt)
	}
}

func TestDrawTooSmall(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 50, 50)
	d, err := parseDrawCmd([]string{"-file", in, "rect", "10", "10", "11", "11"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bg, _ := loadImage(in, false)
	if _, _, err := d.render(bg, annotation.DefaultColor()); err == nil || !strings.Contains(err.Error(), "too small") {
		t.Fatalf("expected too small error, got %v", err)
	}
}

func TestParseAnnotateRequiresSource(t *testing.T) {
	_, err := parseAnnotateCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := parseAnnotateCmd([]string{"-file", "a.png", "-from-clipboard"}, testRoot()); err == nil {
		t.Fatalf("expected error combining -file and -from-clipboard")
	}
}

func TestParseAnnotateDefaultOutput(t *testing.T) {
	r := testRoot()
	a, err := parseAnnotateCmd([]string{"-file", filepath.Join("shots", "bug.png")}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := filepath.Join("shots", "bug-annotated.png"); a.output != want {
		t.Fatalf("output = %q, want %q", a.output, want)
	}
	r.config.SaveDir = "out"
	a, err = parseAnnotateCmd([]string{"-from-clipboard"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := filepath.Join("out", "annotated.png"); a.output != want {
		t.Fatalf("output = %q, want %q", a.output, want)
	}
}

func TestParseCrop(t *testing.T) {
	b, err := parseCrop("10, 20,-30,40")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b != (annotation.Box{X: -20, Y: 20, W: 30, H: 40}) {
		t.Fatalf("crop = %+v", b)
	}
	for _, bad := range []string{"1,2,3", "a,b,c,d", "0,0,0,10"} {
		if _, err := parseCrop(bad); err == nil {
			t.Errorf("parseCrop(%q) should fail", bad)
		}
	}
}

func TestReplayWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100)
	steps := filepath.Join(dir, "steps.yaml")
	src := "steps:\n  - tool: rect\n  - drag: [[10, 10], [60, 40]]\n  - tool: crop\n  - drag: [[0, 0], [100, 50]]\n"
	if err := os.WriteFile(steps, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	out := filepath.Join(dir, "out.png")
	pdf := filepath.Join(dir, "out.pdf")
	sceneOut := filepath.Join(dir, "scene.yaml")
	c, err := parseReplayCmd([]string{"-file", in, "-script", steps, "-output", out, "-pdf", pdf, "-scene-out", sceneOut}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Fatalf("expected cropped 100x50 output, got %v", img.Bounds())
	}
	data, err := os.ReadFile(sceneOut)
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	scene, err := annotation.UnmarshalScene(data)
	if err != nil || len(scene) != 1 {
		t.Fatalf("scene = %v, %v", scene, err)
	}
	if pdfData, err := os.ReadFile(pdf); err != nil || !bytes.HasPrefix(pdfData, []byte("%PDF")) {
		t.Fatalf("pdf output missing or invalid: %v", err)
	}
}

func TestReplayScriptError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 20, 20)
	steps := filepath.Join(dir, "steps.yaml")
	if err := os.WriteFile(steps, []byte("steps:\n  - tool: lasso\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	c, err := parseReplayCmd([]string{"-file", in, "-script", steps}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("expected step error, got %v", err)
	}
}

func TestResolveColorPrecedence(t *testing.T) {
	r := testRoot()
	r.config.Color = "blue"
	t.Setenv("ANNOTATOR_COLOR", "")
	col, err := r.resolveColor("")
	if err != nil || col != (color.RGBA{0x1F, 0x51, 0xFF, 0xFF}) {
		t.Fatalf("config colour = %v, %v", col, err)
	}
	t.Setenv("ANNOTATOR_COLOR", "orange")
	if col, _ := r.resolveColor(""); col != (color.RGBA{0xFF, 0x67, 0x00, 0xFF}) {
		t.Fatalf("env colour = %v", col)
	}
	if col, _ := r.resolveColor("#000000"); col != (color.RGBA{0, 0, 0, 0xFF}) {
		t.Fatalf("flag colour = %v", col)
	}
	if _, err := r.resolveColor("not-a-colour"); err == nil {
		t.Fatalf("expected error for unknown colour")
	}
}

func TestPromptHonoursConfig(t *testing.T) {
	r := testRoot()
	if got := r.prompt(); got == "" {
		t.Fatalf("default prompt should not be empty")
	}
	r.config.Prompt = "  fix the layout  "
	if got := r.prompt(); got != "fix the layout" {
		t.Fatalf("prompt = %q", got)
	}
	r.config.SendPrompt = false
	if got := r.prompt(); got != "" {
		t.Fatalf("disabled prompt = %q", got)
	}
}

func TestUsageErrorRendersTemplate(t *testing.T) {
	r := newRoot()
	msg := (&UsageError{of: r}).Error()
	for _, want := range []string{"Usage: annotator", "replay", "-notify-save"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("help missing %q:\n%s", want, msg)
		}
	}
}

func TestColorsListsPalette(t *testing.T) {
	var buf bytes.Buffer
	c := &colorsCmd{root: testRoot(), out: &buf}
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "* 6 pink") || !strings.Contains(out, "#FF073A") {
		t.Fatalf("unexpected colours output:\n%s", out)
	}
}

func TestReplayContinuesFromScene(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100)
	first := filepath.Join(dir, "first.yaml")
	if err := os.WriteFile(first, []byte("steps:\n  - tool: rect\n  - drag: [[10, 10], [60, 40]]\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	sceneA := filepath.Join(dir, "a.yaml")
	c, err := parseReplayCmd([]string{"-file", in, "-script", first, "-scene-out", sceneA}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := filepath.Join(dir, "second.yaml")
	src := "steps:\n  - tool: arrow\n  - drag: [[10, 80], [150, 80]]\n  - do: undo\n  - do: undo\n  - tool: arrow\n  - drag: [[10, 90], [150, 90]]\n"
	if err := os.WriteFile(second, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	sceneB := filepath.Join(dir, "b.yaml")
	c, err = parseReplayCmd([]string{"-file", in, "-script", second, "-scene-in", sceneA, "-scene-out", sceneB}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	data, err := os.ReadFile(sceneB)
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	scene, err := annotation.UnmarshalScene(data)
	if err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if len(scene) != 2 || scene[0].Kind() != annotation.KindRect || scene[1].Kind() != annotation.KindArrow {
		t.Fatalf("scene = %v", scene)
	}
}

func TestReplayRejectsBadScene(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 20, 20)
	steps := filepath.Join(dir, "steps.yaml")
	bad := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(steps, []byte("steps:\n  - tool: rect\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if err := os.WriteFile(bad, []byte("annotations:\n  - kind: hexagon\n    id: h1\n    color: red\n"), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	c, err := parseReplayCmd([]string{"-file", in, "-script", steps, "-scene-in", bad}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "scene.yaml") {
		t.Fatalf("expected scene error, got %v", err)
	}
}
