package universe

import (
	"math"
	"testing"

	"github.com/san-kum/orbitlab/internal/body"
)

// Slow head-on impact between equal unit masses: below the binding energy, so
// the bodies survive and exchange velocities elastically.
func TestStep_ElasticCollisionSwapsVelocities(t *testing.T) {
	u := New(1.0)
	u.Collisions = true
	aid := u.Bodies.Push(body.Body{Pos: body.Vec2{X: -0.5}, Vel: body.Vec2{X: 0.1}, Radius: 1, Density: 1 / math.Pi})
	bid := u.Bodies.Push(body.Body{Pos: body.Vec2{X: 0.5}, Vel: body.Vec2{X: -0.1}, Radius: 1, Density: 1 / math.Pi})

	// Tiny dt keeps the gravity kick negligible next to the impulse.
	u.Step(1e-6)

	a, b := u.Bodies.Get(aid), u.Bodies.Get(bid)
	if a == nil || b == nil {
		t.Fatal("bodies should survive a gentle collision")
	}
	if math.Abs(a.Vel.X-(-0.1)) > 1e-4 || math.Abs(b.Vel.X-0.1) > 1e-4 {
		t.Errorf("equal masses should swap velocities: a=%v b=%v", a.Vel, b.Vel)
	}

	// The overlap was pushed apart.
	dist := b.Pos.Sub(a.Pos).Len()
	if dist < a.Radius+b.Radius-1e-4 {
		t.Errorf("bodies still overlap: dist=%v", dist)
	}
}

func TestStep_FragmentationAboveBindingEnergy(t *testing.T) {
	u := New(1.0)
	u.Collisions = true
	aid := u.Bodies.Push(body.Body{Pos: body.Vec2{X: -0.5}, Vel: body.Vec2{X: 10}, Radius: 1, Density: 1 / math.Pi})
	bid := u.Bodies.Push(body.Body{Pos: body.Vec2{X: 0.5}, Vel: body.Vec2{X: -10}, Radius: 1, Density: 1 / math.Pi})

	massBefore := 0.0
	u.Bodies.Each(func(_ body.ID, b *body.Body) { massBefore += b.Mass() })

	u.Step(1e-6)

	if u.Bodies.Get(aid) != nil || u.Bodies.Get(bid) != nil {
		t.Error("shattered parents should be removed")
	}
	if u.Bodies.Len() != 2*fragmentCount {
		t.Errorf("got %d bodies after fragmentation, want %d", u.Bodies.Len(), 2*fragmentCount)
	}

	massAfter := 0.0
	u.Bodies.Each(func(_ body.ID, b *body.Body) { massAfter += b.Mass() })
	if math.Abs(massAfter-massBefore) > 1e-9 {
		t.Errorf("mass not conserved: %v -> %v", massBefore, massAfter)
	}

	// Symmetric impact: total momentum stays ~zero through fragmentation.
	p := u.Momentum()
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("momentum after fragmentation = %v, want ~0", p)
	}
}

func TestStep_CollisionsOffIgnoresOverlap(t *testing.T) {
	u := New(1.0)
	aid := u.Bodies.Push(body.Body{Pos: body.Vec2{X: -0.5}, Vel: body.Vec2{X: 10}, Radius: 1, Density: 1 / math.Pi})
	u.Bodies.Push(body.Body{Pos: body.Vec2{X: 0.5}, Vel: body.Vec2{X: -10}, Radius: 1, Density: 1 / math.Pi})

	u.Step(1e-6)

	if u.Bodies.Len() != 2 {
		t.Errorf("collisions disabled but body count changed: %d", u.Bodies.Len())
	}
	if v := u.Bodies.Get(aid).Vel.X; math.Abs(v-10) > 1e-3 {
		t.Errorf("collisions disabled but velocity changed: %v", v)
	}
}
