// Package annotation holds the vector model drawn over a screenshot: the
// closed set of annotation shapes, their geometry and the scene that orders
// them.
package annotation

import (
	"image/color"

	"seehuhn.de/go/geom/vec"
)

// Kind tags the concrete shape of an Annotation.
type Kind string

const (
	KindFreehand Kind = "freehand"
	KindRect     Kind = "rect"
	KindArrow    Kind = "arrow"
	KindText     Kind = "text"
	KindComment  Kind = "comment"
)

// Base carries the fields every annotation shares. ID is assigned once at
// creation and survives moves and edits.
type Base struct {
	ID    string
	Color color.RGBA
}

// Meta returns the shared fields.
func (b Base) Meta() Base { return b }

// Annotation is implemented only by the shape types in this package.
type Annotation interface {
	Kind() Kind
	Meta() Base
	isAnnotation()
}

// Freehand is a poly-line stroke.
type Freehand struct {
	Base
	Points []vec.Vec2
	Width  float64
}

// Rect is a translucent filled box with a dashed outline.
type Rect struct {
	Base
	X, Y, W, H float64
}

// Arrow points from (X1,Y1) to (X2,Y2).
type Arrow struct {
	Base
	X1, Y1, X2, Y2 float64
	Width          float64
}

// Text is an editable text box. FontSize is the on-screen pixel size; at
// scale s the glyphs span FontSize/s canvas units.
type Text struct {
	Base
	X, Y, W, H float64
	Content    string
	FontSize   float64
}

// Comment anchors a label at (TextX,TextY) to a dashed rectangle.
type Comment struct {
	Base
	Rect         Box
	Content      string
	TextX, TextY float64
}

func (Freehand) Kind() Kind { return KindFreehand }
func (Rect) Kind() Kind     { return KindRect }
func (Arrow) Kind() Kind    { return KindArrow }
func (Text) Kind() Kind     { return KindText }
func (Comment) Kind() Kind  { return KindComment }

func (Freehand) isAnnotation() {}
func (Rect) isAnnotation()     {}
func (Arrow) isAnnotation()    {}
func (Text) isAnnotation()     {}
func (Comment) isAnnotation()  {}

// Clone returns a copy of a that shares no memory with it.
func Clone(a Annotation) Annotation {
	if f, ok := a.(Freehand); ok {
		f.Points = append([]vec.Vec2(nil), f.Points...)
		return f
	}
	return a
}
