package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/clipboard"
	"github.com/example/annotator/internal/config"
	"github.com/example/annotator/internal/export"
	"github.com/example/annotator/internal/log"
	"github.com/example/annotator/internal/notify"
	"github.com/example/annotator/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func loadConfig(path string) *config.Config {
	cfg, err := config.NewLoader(version, path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		return config.New()
	}
	return cfg
}

func newRoot() *root {
	cfg := loadConfig(configPathOverride)
	r := &root{
		fs:       flag.NewFlagSet("annotator", flag.ExitOnError),
		program:  "annotator",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.configPath, "config", "", "configuration file to use instead of the default search path")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// applyConfig reloads the configuration named by -config. Notification
// flags that were not given on the command line follow the new file.
func (r *root) applyConfig() {
	if r.configPath == "" {
		return
	}
	r.config = loadConfig(r.configPath)
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = r.config.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = r.config.Notify.Copy
	}
}

func (r *root) resolveTheme() *theme.Theme {
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("ANNOTATOR_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}
	if cfgTheme, ok := r.config.Themes[themeName]; ok {
		return cfgTheme
	}
	t, err := theme.NewLoader().Load(themeName)
	if err != nil {
		if themeName != "" && !strings.EqualFold(themeName, "default") {
			log.L().Warn("failed to load theme, using default", "theme", themeName, "err", err)
		}
		return theme.Default()
	}
	return t
}

// resolveColor applies flag, environment, config and default in that order.
func (r *root) resolveColor(flagValue string) (color.RGBA, error) {
	spec := strings.TrimSpace(flagValue)
	if spec == "" {
		spec = os.Getenv("ANNOTATOR_COLOR")
	}
	if spec == "" && r != nil && r.config != nil {
		spec = r.config.Color
	}
	if spec == "" {
		return annotation.DefaultColor(), nil
	}
	return annotation.ParseColor(spec)
}

// prompt is the text sent with the first copy, or empty when disabled.
func (r *root) prompt() string {
	if r == nil || r.config == nil {
		return export.DefaultPrompt
	}
	if !r.config.SendPrompt {
		return ""
	}
	if p := strings.TrimSpace(r.config.Prompt); p != "" {
		return p
	}
	return export.DefaultPrompt
}

func (r *root) historyLimit() int {
	if r == nil || r.config == nil {
		return 0
	}
	return r.config.HistoryLimit
}

func (r *root) saveDir() string {
	if r == nil || r.config == nil {
		return ""
	}
	return r.config.SaveDir
}

func (r *root) newSession() (*export.Session, *clipboard.Transport) {
	tr := &clipboard.Transport{}
	return export.NewSession(tr, r.prompt()), tr
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.applyConfig()
	log.Init(r.config.LogOptions().Merge(log.FromEnv()))
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "prompt":
		cmd, err = parsePromptCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string, withPrompt bool) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, withPrompt)
}
