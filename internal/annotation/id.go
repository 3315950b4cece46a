package annotation

import (
	"seehuhn.de/go/geom/vec"

	"github.com/google/uuid"
)

// Point is a position in canvas units.
type Point = vec.Vec2

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// NewID returns a fresh annotation identifier.
func NewID() string {
	return uuid.NewString()
}
