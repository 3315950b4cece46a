// Package notify shows desktop notifications after an annotated image is
// saved or handed to the clipboard.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/annotator/internal/log"
	"github.com/example/annotator/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when an export reaches the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Annotator",
		Events: map[Event]EventPreference{
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from ANNOTATOR_NOTIFY_* environment
// variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("ANNOTATOR_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("ANNOTATOR_NOTIFY_SAVE_TEXT", EventSave)
	apply("ANNOTATOR_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(ctx context.Context, title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Notifier that sends through the host platform.
func New(prefs Preferences) *Notifier {
	return NewWithSender(prefs, platform.Notify)
}

// NewWithSender creates a Notifier that sends through fn.
func NewWithSender(prefs Preferences, fn SendFunc) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    fn,
		timeout: 10 * time.Second,
		log:     log.WithComponent("notify"),
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save sends a save notification including the written filename. PNG files
// are used as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{AppName: n.prefs.Title}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if strings.EqualFold(filepath.Ext(abs), ".png") {
			if _, statErr := os.Stat(abs); statErr == nil {
				opts.IconPath = abs
			}
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification. withPrompt notes that the prompt
// text went along with the image.
func (n *Notifier) Copy(detail string, withPrompt bool) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	if withPrompt {
		detail += " with prompt"
	}
	n.dispatch(EventCopy, detail, platform.Options{AppName: n.prefs.Title})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.send(ctx, n.prefs.Title, body, opts); err != nil {
		n.log.Warn("notification failed", slog.String("event", string(event)), slog.Any("err", err))
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
