package body

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector of world coordinates.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len2() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.Len2()) }

// Normalize returns the unit vector in v's direction, or the zero vector when
// v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Vec3 is an RGB triple in [0,1]. Display only, the physics never reads it.
type Vec3 struct {
	X, Y, Z float64
}

// Hex renders the color as #rrggbb, clamping each channel to [0,1].
func (c Vec3) Hex() string {
	clamp := func(v float64) int {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return int(v * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.X), clamp(c.Y), clamp(c.Z))
}
