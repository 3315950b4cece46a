package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/script"
)

// replayCmd runs a gesture script without a window and exports the result.
type replayCmd struct {
	file        string
	scriptPath  string
	output      string
	pdf         string
	sceneIn     string
	sceneOut    string
	toClipboard bool
	cropSpec    string
	crop        *annotation.Box
	*root
	fs *flag.FlagSet
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "background image file")
	fs.StringVar(&c.scriptPath, "script", "", "YAML gesture script")
	fs.StringVar(&c.output, "output", "", "PNG output path")
	fs.StringVar(&c.pdf, "pdf", "", "PDF output path")
	fs.StringVar(&c.sceneIn, "scene-in", "", "start from a scene previously written with -scene-out")
	fs.StringVar(&c.sceneOut, "scene-out", "", "write the resulting scene as YAML")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result and prompt to the clipboard")
	fs.StringVar(&c.cropSpec, "crop", "", "crop rectangle x,y,w,h overriding the script's crop")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 || c.file == "" || c.scriptPath == "" {
		return nil, &UsageError{of: c}
	}
	if c.cropSpec != "" {
		box, err := parseCrop(c.cropSpec)
		if err != nil {
			return nil, err
		}
		c.crop = &box
	}
	if c.output == "" && c.pdf == "" && c.sceneOut == "" && !c.toClipboard {
		c.output = defaultOutput(c.file, r.saveDir())
	}
	return c, nil
}

// parseCrop reads "x,y,w,h" in image pixels.
func parseCrop(s string) (annotation.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return annotation.Box{}, fmt.Errorf("crop must be x,y,w,h: %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return annotation.Box{}, fmt.Errorf("crop value %q: %w", p, err)
		}
		v[i] = f
	}
	b := annotation.Box{X: v[0], Y: v[1], W: v[2], H: v[3]}.Normalize()
	if b.Empty() {
		return annotation.Box{}, fmt.Errorf("crop %q is empty", s)
	}
	return b, nil
}

func (c *replayCmd) loadScript() (*script.Script, error) {
	f, err := os.Open(c.scriptPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := script.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.scriptPath, err)
	}
	return s, nil
}

func (c *replayCmd) loadScene() (annotation.Scene, error) {
	data, err := os.ReadFile(c.sceneIn)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	scene, err := annotation.UnmarshalScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.sceneIn, err)
	}
	return scene, nil
}

// replay runs the script and returns the controller holding the result.
func (c *replayCmd) replay(ctx context.Context, bgW, bgH int) (*canvas.Controller, error) {
	s, err := c.loadScript()
	if err != nil {
		return nil, err
	}
	col, err := c.root.resolveColor("")
	if err != nil {
		return nil, err
	}
	opts := []canvas.Option{
		canvas.WithColor(col),
		canvas.WithImageSize(float64(bgW), float64(bgH)),
	}
	if n := c.root.historyLimit(); n > 0 {
		opts = append(opts, canvas.WithHistoryLimit(n))
	}
	scriptOpts, err := s.Options()
	if err != nil {
		return nil, err
	}
	if c.sceneIn != "" {
		scene, err := c.loadScene()
		if err != nil {
			return nil, err
		}
		opts = append(opts, canvas.WithScene(scene))
	}
	ctrl := canvas.New(append(opts, scriptOpts...)...)
	if err := script.Run(ctx, ctrl, s); err != nil {
		return nil, fmt.Errorf("%s: %w", c.scriptPath, err)
	}
	return ctrl, nil
}

func (c *replayCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bg, err := loadImage(c.file, false)
	if err != nil {
		return err
	}
	ctrl, err := c.replay(ctx, bg.Bounds().Dx(), bg.Bounds().Dy())
	if err != nil {
		return err
	}
	crop := c.crop
	if crop == nil {
		if r, ok := ctrl.CropRect(); ok {
			crop = &r
		}
	}
	scene := ctrl.Scene()

	if c.sceneOut != "" {
		data, err := annotation.MarshalScene(scene)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.sceneOut, data, 0o644); err != nil {
			return fmt.Errorf("write scene: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote scene %s\n", absPath(c.sceneOut))
	}

	if c.output != "" || c.pdf != "" {
		img, err := export.Rasterize(bg, scene, crop, ctrl.Scale())
		if err != nil {
			return err
		}
		if c.output != "" {
			if err := export.SavePNG(c.output, img); err != nil {
				return err
			}
			saved := absPath(c.output)
			fmt.Fprintf(os.Stderr, "saved %s\n", saved)
			c.root.notifySave(saved)
		}
		if c.pdf != "" {
			if err := export.SavePDF(c.pdf, img, filepath.Base(c.file)); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "saved %s\n", absPath(c.pdf))
		}
	}

	if !c.toClipboard {
		return nil
	}
	session, tr := c.root.newSession()
	rc, err := session.Copy(ctx, export.Request{Background: bg, Scene: scene, Crop: crop, Scale: ctrl.Scale()})
	if err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	detail := "image"
	if rc.Text {
		detail = "image and prompt"
	}
	fmt.Fprintf(os.Stderr, "copied %s to clipboard, waiting until it is replaced\n", detail)
	c.root.notifyCopy("image", rc.Text)
	if err := tr.Wait(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
