package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/clipboard"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/script"
)

// drawCmd adds one annotation to an image by replaying the gesture a user
// would make in the window.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	scale         float64
	fontSize      float64
	shape         string
	coords        []float64
	text          string
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "", "colour name or hex value")
	fs.Float64Var(&d.scale, "scale", 1, "display scale the annotation is drawn for; strokes are 3px divided by scale")
	fs.Float64Var(&d.fontSize, "font-size", canvas.DefaultFontSize, "text size in points")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "rect", "arrow":
		d.coords, err = expectFloats(remaining, 4, d.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.coords, err = expectFloats(remaining[:2], 2, d.shape)
		d.text = strings.Join(remaining[2:], " ")
	case "comment":
		if len(remaining) < 5 {
			return nil, fmt.Errorf("comment requires x0 y0 x1 y1 and content")
		}
		d.coords, err = expectFloats(remaining[:4], 4, d.shape)
		d.text = strings.Join(remaining[4:], " ")
	case "freehand":
		if len(remaining) < 4 || len(remaining)%2 != 0 {
			return nil, fmt.Errorf("freehand requires at least two x y pairs")
		}
		d.coords, err = expectFloats(remaining, len(remaining), d.shape)
	default:
		return nil, fmt.Errorf("unsupported shape %q", d.shape)
	}
	if err != nil {
		return nil, err
	}
	if (d.shape == "text" || d.shape == "comment") && strings.TrimSpace(d.text) == "" {
		return nil, fmt.Errorf("%s content cannot be empty", d.shape)
	}
	if d.scale <= 0 {
		return nil, fmt.Errorf("scale must be positive")
	}
	if d.fontSize < canvas.MinFontSize || d.fontSize > canvas.MaxFontSize {
		return nil, fmt.Errorf("font-size must be between %d and %d", canvas.MinFontSize, canvas.MaxFontSize)
	}
	if d.fromClipboard {
		if d.output == "" {
			if d.file != "" {
				d.output = d.file
			} else {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			d.output = d.file
		}
	}
	return d, nil
}

// steps turns the shape into window gestures. Coordinates are image pixels
// and are scaled to screen pixels for the controller.
func (d *drawCmd) steps() []script.Step {
	pt := func(i int) script.Point {
		return script.Point{d.coords[i] * d.scale, d.coords[i+1] * d.scale}
	}
	switch d.shape {
	case "rect", "arrow":
		return []script.Step{
			{Tool: d.shape},
			{Drag: []script.Point{pt(0), pt(2)}},
		}
	case "freehand":
		var pts []script.Point
		for i := 0; i < len(d.coords); i += 2 {
			pts = append(pts, pt(i))
		}
		return []script.Step{{Tool: "draw"}, {Drag: pts}}
	case "text":
		steps := []script.Step{{Tool: "text"}, {Click: ptr(pt(0))}}
		if delta := d.fontSize - canvas.DefaultFontSize; delta != 0 {
			steps = append(steps, script.Step{Font: delta})
		}
		return append(steps, script.Step{Type: d.text}, script.Step{Do: "confirm"})
	case "comment":
		return []script.Step{
			{Tool: "comment"},
			{Drag: []script.Point{pt(0), pt(2)}},
			{Type: d.text},
			{Do: "submit"},
		}
	}
	return nil
}

func ptr(p script.Point) *script.Point { return &p }

// render replays the shape on bg and rasterizes the result.
func (d *drawCmd) render(bg *image.RGBA, col color.RGBA) (*image.RGBA, annotation.Scene, error) {
	b := bg.Bounds()
	ctrl := canvas.New(
		canvas.WithScale(d.scale),
		canvas.WithColor(col),
		canvas.WithImageSize(float64(b.Dx()), float64(b.Dy())),
	)
	if err := script.Run(context.Background(), ctrl, &script.Script{Steps: d.steps()}); err != nil {
		return nil, nil, err
	}
	scene := ctrl.Scene()
	if len(scene) == 0 {
		return nil, nil, fmt.Errorf("%s is too small to draw", d.shape)
	}
	img, err := export.Rasterize(bg, scene, nil, d.scale)
	if err != nil {
		return nil, nil, err
	}
	return img, scene, nil
}

func (d *drawCmd) Run() error {
	bg, err := loadImage(d.file, d.fromClipboard)
	if err != nil {
		return err
	}
	col, err := d.root.resolveColor(d.colorSpec)
	if err != nil {
		return err
	}
	img, _, err := d.render(bg, col)
	if err != nil {
		return err
	}
	if err := export.SavePNG(d.output, img); err != nil {
		return err
	}
	saved := absPath(d.output)
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifySave(saved)
	if d.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied image to clipboard")
		d.root.notifyCopy("image", false)
	}
	return nil
}

func expectFloats(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"to-clipboard":   {},
	"color":          {},
	"scale":          {},
	"font-size":      {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"to-clipboard":   {},
}

// splitDrawArgs separates flags from shape arguments so flags may follow
// the shape and negative coordinates are not mistaken for flags.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
