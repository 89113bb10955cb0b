package universe

import "github.com/san-kum/orbitlab/internal/body"

// Softening length added (squared) to every pairwise separation so coincident
// bodies produce a large but finite acceleration instead of NaN.
const Softening = 1e-6

// Universe is the complete simulation state at one discrete time index.
type Universe struct {
	Bodies     body.List
	Gravity    float64
	Collisions bool

	// Changed marks snapshots that were edited directly rather than derived
	// by stepping. Only changed snapshots are worth persisting; the rest are
	// reconstructible by re-stepping from the previous changed one.
	Changed bool
}

// New returns an empty universe marked changed: a starting point is always
// authoritative.
func New(gravity float64) *Universe {
	return &Universe{Gravity: gravity, Changed: true}
}

// Clone duplicates the universe, preserving body ids. The copy starts with
// Changed cleared: a clone is derived state until someone edits it.
func (u *Universe) Clone() *Universe {
	return &Universe{
		Bodies:     u.Bodies.Clone(),
		Gravity:    u.Gravity,
		Collisions: u.Collisions,
	}
}

// Step advances the universe by dt using semi-implicit Euler: every pairwise
// velocity kick is applied first, then one position update per body. Both
// bodies of a pair receive their equal-and-opposite kicks in the same visit.
// Collision handling queues removals and fragments during pair iteration and
// applies them before positions integrate.
func (u *Universe) Step(dt float64) {
	var events *collisionSet
	if u.Collisions {
		events = &collisionSet{}
	}

	u.Bodies.EachPair(func(aid body.ID, a *body.Body, bid body.ID, b *body.Body) {
		d := b.Pos.Sub(a.Pos)
		r2 := d.Len2() + Softening*Softening
		dir := d.Normalize()

		a.Vel = a.Vel.Add(dir.Scale(u.Gravity * b.Mass() / r2 * dt))
		b.Vel = b.Vel.Sub(dir.Scale(u.Gravity * a.Mass() / r2 * dt))

		if events != nil && d.Len()-a.Radius-b.Radius < 0 {
			events.collide(u.Gravity, aid, a, bid, b)
		}
	})

	if events != nil {
		events.apply(&u.Bodies)
	}

	u.Bodies.Each(func(_ body.ID, b *body.Body) {
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	})
}
