// Package config reads and writes the annotator rc file.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/log"
	"github.com/example/annotator/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Log holds logger settings. Empty fields defer to the environment.
type Log struct {
	Level  string
	Format string
	File   string
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	Color        string
	Prompt       string
	SendPrompt   bool
	HistoryLimit int
	SaveDir      string
	Notify       Notify
	Log          Log
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:      "", // Default to empty to allow fallback to Env/Default
		SendPrompt: true,
		Themes:     make(map[string]*theme.Theme),
	}
}

// LogOptions returns the [log] section as logger options.
func (c *Config) LogOptions() log.Options {
	return log.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.Color != "" {
		fmt.Fprintf(&sb, "color = %s\n", c.Color)
	}
	if c.Prompt != "" {
		fmt.Fprintf(&sb, "prompt = %q\n", c.Prompt)
	}
	fmt.Fprintf(&sb, "send_prompt = %v\n", c.SendPrompt)
	if c.HistoryLimit > 0 {
		fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	if c.Log != (Log{}) {
		sb.WriteString("[log]\n")
		if c.Log.Level != "" {
			fmt.Fprintf(&sb, "level = %s\n", c.Log.Level)
		}
		if c.Log.Format != "" {
			fmt.Fprintf(&sb, "format = %s\n", c.Log.Format)
		}
		if c.Log.File != "" {
			fmt.Fprintf(&sb, "file = %s\n", c.Log.File)
		}
		sb.WriteString("\n")
	}

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, annotation.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
