package annotation

import "sort"

// Scene is the ordered list of committed annotations. Later entries paint
// on top.
type Scene []Annotation

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	if s == nil {
		return Scene{}
	}
	out := make(Scene, len(s))
	for i, a := range s {
		out[i] = Clone(a)
	}
	return out
}

// Index returns the position of the annotation with id, or -1.
func (s Scene) Index(id string) int {
	for i, a := range s {
		if a.Meta().ID == id {
			return i
		}
	}
	return -1
}

// Find returns the annotation with id.
func (s Scene) Find(id string) (Annotation, bool) {
	if i := s.Index(id); i >= 0 {
		return s[i], true
	}
	return nil, false
}

// Replace returns a new scene with the annotation sharing a's id swapped
// for a. The scene is returned unchanged when no such id exists.
func (s Scene) Replace(a Annotation) Scene {
	out := s.Clone()
	if i := out.Index(a.Meta().ID); i >= 0 {
		out[i] = Clone(a)
	}
	return out
}

// Append returns a new scene with a added on top.
func (s Scene) Append(a Annotation) Scene {
	return append(s.Clone(), Clone(a))
}

// Without returns a new scene dropping every annotation in sel.
func (s Scene) Without(sel Selection) Scene {
	out := make(Scene, 0, len(s))
	for _, a := range s {
		if !sel.Has(a.Meta().ID) {
			out = append(out, Clone(a))
		}
	}
	return out
}

// MoveSelected returns a new scene with the selected annotations shifted.
func (s Scene) MoveSelected(sel Selection, dx, dy float64) Scene {
	out := make(Scene, len(s))
	for i, a := range s {
		if sel.Has(a.Meta().ID) {
			out[i] = Move(a, dx, dy)
		} else {
			out[i] = Clone(a)
		}
	}
	return out
}

// TopmostHit returns the last annotation in paint order hit at p.
func (s Scene) TopmostHit(p Point, tol float64) (Annotation, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if HitTest(s[i], p, tol) {
			return s[i], true
		}
	}
	return nil, false
}

// Selection is a set of annotation ids.
type Selection map[string]struct{}

// NewSelection builds a selection holding ids.
func NewSelection(ids ...string) Selection {
	sel := Selection{}
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	return sel
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership of id.
func (s Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Prune drops ids that are not present in scene.
func (s Selection) Prune(scene Scene) {
	for id := range s {
		if scene.Index(id) < 0 {
			delete(s, id)
		}
	}
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
