package main

import (
	"flag"
	"fmt"

	"github.com/example/annotator/internal/appstate"
)

// annotateCmd opens the annotation window.
type annotateCmd struct {
	file          string
	output        string
	fromClipboard bool
	scale         float64
	colorSpec     string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.StringVar(&a.output, "output", "", "output file path (defaults to <file>-annotated.png)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	fs.Float64Var(&a.scale, "scale", 0, "zoom factor (0 fits the window)")
	fs.StringVar(&a.colorSpec, "color", "", "initial drawing colour name or hex value")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: a}
	}
	if a.file == "" && !a.fromClipboard {
		return nil, &UsageError{of: a}
	}
	if a.file != "" && a.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard cannot be combined")
	}
	if a.scale < 0 {
		return nil, fmt.Errorf("scale must not be negative")
	}
	if a.output == "" {
		a.output = defaultOutput(a.file, r.saveDir())
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	img, err := loadImage(a.file, a.fromClipboard)
	if err != nil {
		return err
	}
	col, err := a.root.resolveColor(a.colorSpec)
	if err != nil {
		return err
	}
	session, _ := a.root.newSession()
	st := appstate.New(
		appstate.WithImage(img),
		appstate.WithOutput(a.output),
		appstate.WithScale(a.scale),
		appstate.WithColor(col),
		appstate.WithTheme(a.root.activeTheme),
		appstate.WithSession(session),
		appstate.WithNotifier(a.root.notifier),
		appstate.WithHistoryLimit(a.root.historyLimit()),
	)
	st.Run()
	return nil
}
