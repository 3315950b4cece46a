//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	x11Once sync.Once
	x11Err  error
	x11     *x11Clipboard
)

func x11Backend() (*x11Clipboard, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	x11Once.Do(func() {
		clip := &x11Clipboard{}
		if err := clip.initialize(); err != nil {
			x11Err = err
			return
		}
		x11 = clip
	})
	return x11, x11Err
}

type x11Clipboard struct {
	conn      *xgb.Conn
	window    xproto.Window
	atoms     atomSet
	mu        sync.RWMutex
	textData  []byte
	imageData []byte
	lost      chan struct{}
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func (c *x11Clipboard) initialize() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return err
	}
	c.conn = conn
	c.window = window
	c.atoms = atoms
	go c.eventLoop()
	return nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "ANNOTATOR_CLIPBOARD"}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{
		clipboard: atoms[0],
		targets:   atoms[1],
		utf8:      atoms[2],
		textPlain: atoms[3],
		png:       atoms[4],
		property:  atoms[5],
	}, nil
}

// write takes ownership of the clipboard offering image and text. The
// returned channel closes when the content is replaced.
func (c *x11Clipboard) write(image, text []byte) (<-chan struct{}, error) {
	c.mu.Lock()
	c.imageData = append([]byte(nil), image...)
	c.textData = append([]byte(nil), text...)
	if c.lost != nil {
		close(c.lost)
	}
	lost := make(chan struct{})
	c.lost = lost
	c.mu.Unlock()
	if err := xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	return lost, nil
}

func (c *x11Clipboard) eventLoop() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.handleSelectionRequest(e)
		case xproto.SelectionClearEvent:
			c.handleSelectionClear()
		}
	}
}

// targets lists what the current content can be converted to.
func (c *x11Clipboard) targets(text, image []byte) []xproto.Atom {
	targets := []xproto.Atom{c.atoms.targets}
	if len(image) > 0 {
		targets = append(targets, c.atoms.png)
	}
	if len(text) > 0 {
		targets = append(targets, c.atoms.utf8, xproto.AtomString, c.atoms.textPlain)
	}
	return targets
}

func (c *x11Clipboard) handleSelectionRequest(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	c.mu.RLock()
	text := c.textData
	image := c.imageData
	c.mu.RUnlock()

	var (
		targetType xproto.Atom
		format     byte
		payload    []byte
	)

	switch e.Target {
	case c.atoms.targets:
		payload = atomsToBytes(c.targets(text, image))
		targetType = xproto.AtomAtom
		format = 32
	case c.atoms.utf8, xproto.AtomString, c.atoms.textPlain:
		payload = text
		targetType = c.atoms.utf8
		format = 8
	case c.atoms.png:
		payload = image
		targetType = c.atoms.png
		format = 8
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	}

	if property != xproto.AtomNone {
		length := uint32(len(payload))
		if format == 32 {
			length /= 4
		}
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property, targetType, format, length, payload)
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

func (c *x11Clipboard) handleSelectionClear() {
	c.mu.Lock()
	c.textData = nil
	c.imageData = nil
	if c.lost != nil {
		close(c.lost)
		c.lost = nil
	}
	c.mu.Unlock()
}

func (c *x11Clipboard) readSelection(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	for {
		ev, xerr := conn.WaitForEvent()
		if xerr != nil {
			return nil, xerr
		}
		if ev == nil {
			return nil, fmt.Errorf("x11 connection closed")
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard target unavailable")
		}
		reply, err := xproto.GetProperty(conn, true, window, c.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), reply.Value...), nil
	}
}

func (c *x11Clipboard) readText() (string, error) {
	data, err := c.readSelection(c.atoms.utf8)
	if err != nil {
		data, err = c.readSelection(xproto.AtomString)
		if err != nil {
			return "", err
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	// Some applications include a trailing null byte in STRING responses.
	if data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return string(data), nil
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
