// Package script replays recorded canvas gestures from YAML. It drives a
// canvas.Controller the same way a window host does, which makes it useful
// for headless exports and for reproducing interaction bugs.
//
// A script looks like:
//
//	scale: 1
//	color: "#39FF14"
//	steps:
//	  - tool: rect
//	  - drag: [[10, 10], [110, 60]]
//	  - tool: text
//	  - click: [5, 5]
//	  - type: "hello"
//	  - key: ctrl+enter
//	  - do: undo
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"gopkg.in/yaml.v3"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/canvas"
	"github.com/example/annotator/internal/log"
)

// ErrUnknownStep is returned for steps that name no known action.
var ErrUnknownStep = errors.New("unknown step")

// Point is an x, y pair in screen pixels.
type Point [2]float64

// Script is a decoded gesture script.
type Script struct {
	Scale float64 `yaml:"scale,omitempty"`
	Color string  `yaml:"color,omitempty"`
	Steps []Step  `yaml:"steps"`
}

// Step is a single action. Exactly one action field is set; Clicks and Mods
// qualify pointer presses.
type Step struct {
	Tool   string   `yaml:"tool,omitempty"`
	Color  string   `yaml:"color,omitempty"`
	Down   *Point   `yaml:"down,omitempty"`
	Move   *Point   `yaml:"move,omitempty"`
	Up     *Point   `yaml:"up,omitempty"`
	Click  *Point   `yaml:"click,omitempty"`
	Drag   []Point  `yaml:"drag,omitempty"`
	Type   string   `yaml:"type,omitempty"`
	Key    string   `yaml:"key,omitempty"`
	Select []string `yaml:"select,omitempty"`
	Font   float64  `yaml:"font,omitempty"`
	Do     string   `yaml:"do,omitempty"`

	Clicks int    `yaml:"clicks,omitempty"`
	Mods   string `yaml:"mods,omitempty"`
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// Options applies the script header to controller options.
func (s *Script) Options() ([]canvas.Option, error) {
	var opts []canvas.Option
	if s.Scale > 0 {
		opts = append(opts, canvas.WithScale(s.Scale))
	}
	if s.Color != "" {
		col, err := annotation.ParseColor(s.Color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, canvas.WithColor(col))
	}
	return opts, nil
}

// Run replays every step against c. It stops at the first failing step or
// when ctx is done.
func Run(ctx context.Context, c *canvas.Controller, s *Script) error {
	l := log.WithComponent("script")
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(c, st); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		l.Debug("step", slog.Int("n", i+1), slog.String("action", st.name()))
	}
	return nil
}

func (st Step) name() string {
	switch {
	case st.Tool != "":
		return "tool"
	case st.Color != "":
		return "color"
	case st.Down != nil:
		return "down"
	case st.Move != nil:
		return "move"
	case st.Up != nil:
		return "up"
	case st.Click != nil:
		return "click"
	case len(st.Drag) > 0:
		return "drag"
	case st.Type != "":
		return "type"
	case st.Key != "":
		return "key"
	case len(st.Select) > 0:
		return "select"
	case st.Font != 0:
		return "font"
	case st.Do != "":
		return "do"
	}
	return ""
}

func apply(c *canvas.Controller, st Step) error {
	mods, err := ParseMods(st.Mods)
	if err != nil {
		return err
	}
	pointer := func(p Point) canvas.Pointer {
		return canvas.Pointer{X: p[0], Y: p[1], Clicks: st.Clicks, Modifiers: mods}
	}
	switch st.name() {
	case "tool":
		t, ok := canvas.ParseTool(st.Tool)
		if !ok {
			return fmt.Errorf("tool %q: %w", st.Tool, ErrUnknownStep)
		}
		c.ChangeTool(t)
	case "color":
		col, err := annotation.ParseColor(st.Color)
		if err != nil {
			return err
		}
		c.SetColor(col)
	case "down":
		c.PointerDown(pointer(*st.Down))
	case "move":
		c.PointerMove(pointer(*st.Move))
	case "up":
		c.PointerUp(pointer(*st.Up))
	case "click":
		c.PointerDown(pointer(*st.Click))
		c.PointerUp(pointer(*st.Click))
	case "drag":
		if len(st.Drag) < 2 {
			return errors.New("drag needs at least two points")
		}
		c.PointerDown(pointer(st.Drag[0]))
		for _, p := range st.Drag[1:] {
			c.PointerMove(pointer(p))
		}
		c.PointerUp(pointer(st.Drag[len(st.Drag)-1]))
	case "type":
		for _, r := range st.Type {
			if r == '\n' {
				c.HandleKey(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})
				continue
			}
			c.HandleKey(key.Event{Rune: r, Direction: key.DirPress})
		}
	case "key":
		e, err := ParseKey(st.Key)
		if err != nil {
			return err
		}
		c.HandleKey(e)
	case "select":
		c.Select(st.Select...)
	case "font":
		c.AdjustFontSize(st.Font)
	case "do":
		return doAction(c, st.Do)
	default:
		return ErrUnknownStep
	}
	return nil
}

func doAction(c *canvas.Controller, name string) error {
	switch name {
	case "undo":
		c.Undo()
	case "redo":
		c.Redo()
	case "clear":
		c.ClearAll()
	case "delete":
		c.DeleteSelected()
	case "escape":
		c.Escape()
	case "confirm":
		c.ConfirmText()
	case "cancel":
		c.CancelText()
	case "submit":
		c.SubmitComment()
	case "release-outside":
		c.ReleaseOutside()
	default:
		return fmt.Errorf("do %q: %w", name, ErrUnknownStep)
	}
	return nil
}

var modNames = map[string]key.Modifiers{
	"shift": key.ModShift,
	"ctrl":  key.ModControl,
	"alt":   key.ModAlt,
	"meta":  key.ModMeta,
	"cmd":   key.ModMeta,
}

var keyNames = map[string]key.Code{
	"escape":    key.CodeEscape,
	"esc":       key.CodeEscape,
	"enter":     key.CodeReturnEnter,
	"return":    key.CodeReturnEnter,
	"backspace": key.CodeDeleteBackspace,
	"delete":    key.CodeDeleteForward,
	"tab":       key.CodeTab,
	"space":     key.CodeSpacebar,
}

// ParseMods parses a "+" separated modifier list such as "ctrl+shift".
func ParseMods(s string) (key.Modifiers, error) {
	var mods key.Modifiers
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, "+") {
		m, ok := modNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mods |= m
	}
	return mods, nil
}

// ParseKey parses a key chord such as "ctrl+shift+z", "escape" or "h".
func ParseKey(s string) (key.Event, error) {
	parts := strings.Split(s, "+")
	name := strings.TrimSpace(parts[len(parts)-1])
	mods, err := ParseMods(strings.Join(parts[:len(parts)-1], "+"))
	if err != nil {
		return key.Event{}, err
	}
	e := key.Event{Modifiers: mods, Direction: key.DirPress}
	if code, ok := keyNames[strings.ToLower(name)]; ok {
		e.Code = code
		if code == key.CodeSpacebar {
			e.Rune = ' '
		}
		return e, nil
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || size != len(name) {
		return key.Event{}, fmt.Errorf("key %q: %w", s, ErrUnknownStep)
	}
	if mods&key.ModShift != 0 {
		r = []rune(strings.ToUpper(string(r)))[0]
	}
	e.Rune = r
	return e, nil
}
