package body

import "math"

// Body is the state of one disc mass. Radius and density are expected to stay
// positive; the engine does not re-validate, and mass degrades to >= 0 if a
// caller breaks that.
type Body struct {
	Name    string
	Pos     Vec2
	Vel     Vec2
	Radius  float64
	Density float64
	Color   Vec3
}

// Mass derives the disc mass from density and radius.
func (b *Body) Mass() float64 {
	return b.Density * math.Pi * b.Radius * b.Radius
}
