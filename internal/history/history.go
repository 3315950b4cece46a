// Package history keeps a bounded undo/redo log of full scene snapshots.
package history

import (
	"sync"

	"github.com/example/annotator/internal/annotation"
)

// DefaultLimit is the maximum number of undo entries, sentinel included.
const DefaultLimit = 30

// Log is an undo/redo stack pair. The bottom undo entry is the scene the
// log was created or reset with and is never popped or evicted.
// It is safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	limit int
	undo  []annotation.Scene
	redo  []annotation.Scene
}

// New returns a log whose sentinel is initial. A limit below 2 falls back to
// DefaultLimit.
func New(initial annotation.Scene, limit int) *Log {
	if limit < 2 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, undo: []annotation.Scene{initial.Clone()}}
}

// Commit records s and discards the redo stack.
func (l *Log) Commit(s annotation.Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undo = append(l.undo, s.Clone())
	if len(l.undo) > l.limit {
		// keep the sentinel, evict the oldest entry above it
		l.undo = append(l.undo[:1], l.undo[2:]...)
	}
	l.redo = nil
}

// Undo steps back one entry and returns the new current scene. ok is false
// when only the sentinel remains.
func (l *Log) Undo() (annotation.Scene, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undo) <= 1 {
		return nil, false
	}
	top := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, top)
	return l.undo[len(l.undo)-1].Clone(), true
}

// Redo reapplies the most recently undone scene.
func (l *Log) Redo() (annotation.Scene, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.redo) == 0 {
		return nil, false
	}
	s := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, s)
	return s.Clone(), true
}

// CanUndo reports whether Undo would change the scene.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo) > 1
}

// CanRedo reports whether Redo has anything to reapply.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}

// ResetToEmpty drops every entry and installs an empty scene as sentinel.
func (l *Log) ResetToEmpty() annotation.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undo = []annotation.Scene{{}}
	l.redo = nil
	return annotation.Scene{}
}

// Len returns the undo and redo stack depths.
func (l *Log) Len() (undo, redo int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo), len(l.redo)
}
