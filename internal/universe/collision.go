package universe

import (
	"math"

	"github.com/san-kum/orbitlab/internal/body"
)

// Fragmentation tuning. Daughter radii are parent/sqrt(fragmentCount) so the
// daughters' combined disc mass matches the parent's exactly; the scatter ring
// radius is a plain tunable, not a conservation law.
const (
	fragmentCount   = 5
	scatterDistance = 1.5 // in units of the parent radius
)

// collisionSet accumulates store mutations discovered during pair iteration.
// Removals and insertions must not happen while EachPair is walking the list,
// so they are queued here and applied in one pass at the end of the step.
type collisionSet struct {
	remove []body.ID
	add    []body.Body
}

// collide resolves an overlapping pair: elastic impulse along the line of
// centers, positional separation proportional to the partner's mass share,
// then a binding-energy check that may shatter either body.
func (c *collisionSet) collide(g float64, aid body.ID, a *body.Body, bid body.ID, b *body.Body) {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	dir := d.Normalize()
	if dir == (body.Vec2{}) {
		// Coincident centers leave no line of centers; pick an axis.
		dir = body.Vec2{X: 1}
	}

	ma, mb := a.Mass(), b.Mass()
	total := ma + mb
	if total == 0 {
		return
	}

	// 1D elastic exchange of the velocity components along the line of
	// centers, mass-weighted; the perpendicular components are untouched.
	va := a.Vel.Dot(dir)
	vb := b.Vel.Dot(dir)
	vaAfter := (va*(ma-mb) + 2*mb*vb) / total
	vbAfter := (vb*(mb-ma) + 2*ma*va) / total
	a.Vel = a.Vel.Add(dir.Scale(vaAfter - va))
	b.Vel = b.Vel.Add(dir.Scale(vbAfter - vb))

	// Push the overlap apart; the lighter body moves farther.
	overlap := a.Radius + b.Radius - dist
	a.Pos = a.Pos.Sub(dir.Scale(overlap * mb / total))
	b.Pos = b.Pos.Add(dir.Scale(overlap * ma / total))

	c.shatterCheck(g, aid, a, ma, math.Abs(vaAfter-va))
	c.shatterCheck(g, bid, b, mb, math.Abs(vbAfter-vb))
}

// shatterCheck fragments the body when the kinetic energy the collision
// impulse put into it exceeds its 2D gravitational self-binding energy
// E = 2*G*m^2/(3*r).
func (c *collisionSet) shatterCheck(g float64, id body.ID, b *body.Body, mass, dv float64) {
	impulseKE := 0.5 * mass * dv * dv
	binding := 2 * g * mass * mass / (3 * b.Radius)
	if impulseKE <= binding {
		return
	}
	for _, queued := range c.remove {
		if queued == id {
			return
		}
	}
	c.remove = append(c.remove, id)

	r := b.Radius / math.Sqrt(fragmentCount)
	for i := 0; i < fragmentCount; i++ {
		angle := 2 * math.Pi * float64(i) / fragmentCount
		offset := body.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(b.Radius * scatterDistance)
		c.add = append(c.add, body.Body{
			Name:    b.Name,
			Pos:     b.Pos.Add(offset),
			Vel:     b.Vel,
			Radius:  r,
			Density: b.Density,
			Color:   b.Color,
		})
	}
}

func (c *collisionSet) apply(l *body.List) {
	for _, id := range c.remove {
		l.Remove(id)
	}
	for i := range c.add {
		l.Push(c.add[i])
	}
}
