package canvas

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// KeyShortcut describes a keyboard combination that triggers an action. A
// shortcut matches on Rune (case-insensitive) or Code, and the modifiers
// must be equal.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Matches reports whether e triggers the shortcut.
func (s KeyShortcut) Matches(e key.Event) bool {
	if e.Modifiers&modMask != s.Modifiers {
		return false
	}
	if s.Rune != 0 && unicode.ToLower(e.Rune) == s.Rune {
		return true
	}
	return s.Code != key.CodeUnknown && e.Code == s.Code
}

// Binding ties shortcuts to a named canvas action.
type Binding struct {
	Name string
	Keys []KeyShortcut
	run  func(*Controller)
}

func letter(r rune, code key.Code) []KeyShortcut {
	return []KeyShortcut{{Rune: r, Code: code}, {Rune: r, Code: code, Modifiers: key.ModShift}}
}

func toolAction(t Tool) func(*Controller) {
	return func(c *Controller) { c.ChangeTool(t) }
}

// Bindings returns the canvas shortcuts in match order.
func Bindings() []Binding {
	return []Binding{
		{"redo", []KeyShortcut{
			{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
			{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModMeta | key.ModShift},
		}, (*Controller).Redo},
		{"undo", []KeyShortcut{
			{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl},
			{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModMeta},
		}, (*Controller).Undo},
		{"escape", []KeyShortcut{{Code: key.CodeEscape}}, (*Controller).Escape},
		{"delete", []KeyShortcut{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, (*Controller).DeleteSelected},
		{"select", letter('v', key.CodeV), toolAction(ToolSelect)},
		{"draw", letter('p', key.CodeP), toolAction(ToolDraw)},
		{"rect", letter('h', key.CodeH), toolAction(ToolRect)},
		{"arrow", letter('a', key.CodeA), toolAction(ToolArrow)},
		{"comment", letter('c', key.CodeC), toolAction(ToolComment)},
		{"text", letter('t', key.CodeT), toolAction(ToolText)},
		{"crop", letter('k', key.CodeK), toolAction(ToolCrop)},
	}
}

// HandleKey applies a key press. While a text or comment buffer is open
// every key goes to the buffer. It reports whether the key was used.
func (c *Controller) HandleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if c.text != nil {
		c.bufferKey(e, &c.text.Content, c.ConfirmText, c.CancelText)
		return true
	}
	if c.comment.Visible {
		c.bufferKey(e, &c.comment.Text, c.SubmitComment, c.CloseComment)
		return true
	}
	for _, b := range Bindings() {
		for _, k := range b.Keys {
			if k.Matches(e) {
				b.run(c)
				return true
			}
		}
	}
	return false
}

// bufferKey edits an input buffer. Ctrl or Meta with Enter confirms, Escape
// cancels and plain Enter inserts a newline.
func (c *Controller) bufferKey(e key.Event, buf *string, confirm, cancel func()) {
	mod := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	switch e.Code {
	case key.CodeReturnEnter:
		if mod {
			confirm()
			return
		}
		*buf += "\n"
		return
	case key.CodeEscape:
		cancel()
		return
	case key.CodeDeleteBackspace:
		if _, size := utf8.DecodeLastRuneInString(*buf); size > 0 {
			*buf = (*buf)[:len(*buf)-size]
		}
		return
	}
	if !mod && e.Rune > 0 && unicode.IsPrint(e.Rune) {
		*buf += string(e.Rune)
	}
}
