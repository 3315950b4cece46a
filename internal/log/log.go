// Package log configures the slog logger shared by the annotator packages.
//
// Settings come from Options or the environment:
//   - ANNOTATOR_LOG_LEVEL=debug|info|warn|error
//   - ANNOTATOR_LOG_FORMAT=console|json
//   - ANNOTATOR_LOG_FILE=<path> (adds a rotated JSON file)
//   - ANNOTATOR_LOG_SOURCE=true|false
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialisation. The zero value logs INFO and above
// to stderr in console format.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
	// Output replaces stderr for the console handler.
	Output io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
)

// L returns the process logger, initialising it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the process logger and slog.Default.
func Init(opts Options) {
	lvl := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	} else {
		handlers = append(handlers, &consoleHandler{level: lvl, source: opts.AddSource, w: out, mu: &sync.Mutex{}})
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}
	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &fanout{hs: handlers}
	}
	logger := slog.New(h).With(slog.String("app", "annotator"))

	mu.Lock()
	current = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv reads Options from ANNOTATOR_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("ANNOTATOR_LOG_LEVEL", "info"),
		Format:    getenv("ANNOTATOR_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("ANNOTATOR_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("ANNOTATOR_LOG_FILE"),
	}
}

// Merge fills empty fields of o from fallback.
func (o Options) Merge(fallback Options) Options {
	if o.Level == "" {
		o.Level = fallback.Level
	}
	if o.Format == "" {
		o.Format = fallback.Format
	}
	if o.File == "" {
		o.File = fallback.File
	}
	if !o.AddSource {
		o.AddSource = fallback.AddSource
	}
	if o.Output == nil {
		o.Output = fallback.Output
	}
	return o
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns the process logger tagged with component=name.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type fanout struct{ hs []slog.Handler }

func (m *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &fanout{hs: res}
}

func (m *fanout) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &fanout{hs: res}
}
