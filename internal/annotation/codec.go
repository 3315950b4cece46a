package annotation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type record struct {
	Kind     Kind         `yaml:"kind"`
	ID       string       `yaml:"id"`
	Color    string       `yaml:"color"`
	X        float64      `yaml:"x,omitempty"`
	Y        float64      `yaml:"y,omitempty"`
	W        float64      `yaml:"w,omitempty"`
	H        float64      `yaml:"h,omitempty"`
	X2       float64      `yaml:"x2,omitempty"`
	Y2       float64      `yaml:"y2,omitempty"`
	Width    float64      `yaml:"width,omitempty"`
	Points   [][2]float64 `yaml:"points,omitempty,flow"`
	Content  string       `yaml:"content,omitempty"`
	FontSize float64      `yaml:"font_size,omitempty"`
	TextX    float64      `yaml:"text_x,omitempty"`
	TextY    float64      `yaml:"text_y,omitempty"`
}

type sceneFile struct {
	Annotations []record `yaml:"annotations"`
}

// MarshalScene encodes s as YAML.
func MarshalScene(s Scene) ([]byte, error) {
	var f sceneFile
	for _, a := range s {
		f.Annotations = append(f.Annotations, toRecord(a))
	}
	return yaml.Marshal(f)
}

// UnmarshalScene decodes a scene written by MarshalScene. Duplicate ids are
// rejected.
func UnmarshalScene(data []byte) (Scene, error) {
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	seen := map[string]bool{}
	s := make(Scene, 0, len(f.Annotations))
	for i, r := range f.Annotations {
		a, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		id := a.Meta().ID
		if seen[id] {
			return nil, fmt.Errorf("annotation %d: duplicate id %q", i, id)
		}
		seen[id] = true
		s = append(s, a)
	}
	return s, nil
}

func toRecord(a Annotation) record {
	m := a.Meta()
	r := record{Kind: a.Kind(), ID: m.ID, Color: Hex(m.Color)}
	switch v := a.(type) {
	case Freehand:
		r.Width = v.Width
		for _, p := range v.Points {
			r.Points = append(r.Points, [2]float64{p.X, p.Y})
		}
	case Rect:
		r.X, r.Y, r.W, r.H = v.X, v.Y, v.W, v.H
	case Arrow:
		r.X, r.Y, r.X2, r.Y2, r.Width = v.X1, v.Y1, v.X2, v.Y2, v.Width
	case Text:
		r.X, r.Y, r.W, r.H = v.X, v.Y, v.W, v.H
		r.Content, r.FontSize = v.Content, v.FontSize
	case Comment:
		r.X, r.Y, r.W, r.H = v.Rect.X, v.Rect.Y, v.Rect.W, v.Rect.H
		r.Content, r.TextX, r.TextY = v.Content, v.TextX, v.TextY
	}
	return r
}

func fromRecord(r record) (Annotation, error) {
	c, err := ParseColor(r.Color)
	if err != nil {
		return nil, err
	}
	id := r.ID
	if id == "" {
		id = NewID()
	}
	base := Base{ID: id, Color: c}
	switch r.Kind {
	case KindFreehand:
		pts := make([]Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = Pt(p[0], p[1])
		}
		return Freehand{Base: base, Points: pts, Width: r.Width}, nil
	case KindRect:
		return Rect{Base: base, X: r.X, Y: r.Y, W: r.W, H: r.H}, nil
	case KindArrow:
		return Arrow{Base: base, X1: r.X, Y1: r.Y, X2: r.X2, Y2: r.Y2, Width: r.Width}, nil
	case KindText:
		return Text{Base: base, X: r.X, Y: r.Y, W: r.W, H: r.H, Content: r.Content, FontSize: r.FontSize}, nil
	case KindComment:
		return Comment{Base: base, Rect: Box{X: r.X, Y: r.Y, W: r.W, H: r.H}, Content: r.Content, TextX: r.TextX, TextY: r.TextY}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", r.Kind)
}
