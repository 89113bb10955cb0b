package universe

import (
	"math"

	"github.com/san-kum/orbitlab/internal/body"
)

// Energy returns kinetic plus pairwise potential energy, softened the same
// way as the force so the two agree at small separations.
func (u *Universe) Energy() float64 {
	ke := 0.0
	u.Bodies.Each(func(_ body.ID, b *body.Body) {
		ke += 0.5 * b.Mass() * b.Vel.Len2()
	})

	pe := 0.0
	u.Bodies.EachPair(func(_ body.ID, a *body.Body, _ body.ID, b *body.Body) {
		r := math.Sqrt(a.Pos.Sub(b.Pos).Len2() + Softening*Softening)
		pe -= u.Gravity * a.Mass() * b.Mass() / r
	})

	return ke + pe
}

// Momentum returns the total linear momentum.
func (u *Universe) Momentum() body.Vec2 {
	var p body.Vec2
	u.Bodies.Each(func(_ body.ID, b *body.Body) {
		p = p.Add(b.Vel.Scale(b.Mass()))
	})
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (u *Universe) AngularMomentum() float64 {
	L := 0.0
	u.Bodies.Each(func(_ body.ID, b *body.Body) {
		L += b.Mass() * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	})
	return L
}
