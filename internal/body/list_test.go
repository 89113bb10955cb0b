package body

import (
	"math"
	"testing"
)

func makeBody(name string) Body {
	return Body{Name: name, Radius: 1.0, Density: 1.0}
}

func TestList_InsertGetRemove(t *testing.T) {
	var l List

	id := NextID()
	l.Insert(id, makeBody("a"))

	got := l.Get(id)
	if got == nil || got.Name != "a" {
		t.Fatalf("Get after Insert: got %v", got)
	}

	b, ok := l.Remove(id)
	if !ok || b.Name != "a" {
		t.Fatalf("Remove: got (%v, %v)", b, ok)
	}
	if l.Get(id) != nil {
		t.Error("Get after Remove should be nil")
	}
	if _, ok := l.Remove(id); ok {
		t.Error("second Remove should report not found")
	}
}

func TestList_InsertDuplicatePanics(t *testing.T) {
	var l List
	id := NextID()
	l.Insert(id, makeBody("a"))

	defer func() {
		if recover() == nil {
			t.Error("duplicate Insert did not panic")
		}
	}()
	l.Insert(id, makeBody("b"))
}

func TestList_InsertKeepsOrder(t *testing.T) {
	var l List
	ids := []ID{NextID(), NextID(), NextID()}

	// Insert out of order; iteration must come back sorted.
	l.Insert(ids[2], makeBody("c"))
	l.Insert(ids[0], makeBody("a"))
	l.Insert(ids[1], makeBody("b"))

	var order []ID
	l.Each(func(id ID, _ *Body) { order = append(order, id) })
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Fatalf("iteration not in ascending id order: %v", order)
		}
	}
}

func TestList_Push(t *testing.T) {
	var l List
	a := l.Push(makeBody("a"))
	b := l.Push(makeBody("b"))

	if b <= a {
		t.Errorf("pushed ids not increasing: %d then %d", a, b)
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
	if got := l.Get(a); got == nil || got.Name != "a" {
		t.Errorf("Get(%d) = %v", a, got)
	}
}

func TestList_Disjoint(t *testing.T) {
	var l List
	a := l.Push(makeBody("a"))
	b := l.Push(makeBody("b"))
	missing := NextID()

	tests := []struct {
		name string
		ids  []ID
		want []bool // whether each slot should resolve
	}{
		{"distinct", []ID{a, b}, []bool{true, true}},
		{"duplicate second loses", []ID{a, a}, []bool{true, false}},
		{"zero is empty", []ID{0, b}, []bool{false, true}},
		{"absent", []ID{missing, a}, []bool{false, true}},
		{"triple dup", []ID{b, b, b}, []bool{true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Disjoint(tt.ids...)
			if len(got) != len(tt.ids) {
				t.Fatalf("got %d slots, want %d", len(got), len(tt.ids))
			}
			for i, want := range tt.want {
				if (got[i] != nil) != want {
					t.Errorf("slot %d: resolved=%v, want %v", i, got[i] != nil, want)
				}
			}
			// No two resolved slots may alias.
			for i := range got {
				for j := i + 1; j < len(got); j++ {
					if got[i] != nil && got[i] == got[j] {
						t.Errorf("slots %d and %d alias the same body", i, j)
					}
				}
			}
		})
	}
}

func TestList_EachPair(t *testing.T) {
	var l List
	n := 5
	for i := 0; i < n; i++ {
		l.Push(makeBody("x"))
	}

	visits := 0
	l.EachPair(func(aid ID, a *Body, bid ID, b *Body) {
		visits++
		if aid == bid {
			t.Errorf("pair with identical ids %d", aid)
		}
		if a == b {
			t.Error("pair pointers alias")
		}
		if aid >= bid {
			t.Errorf("pair not in id order: %d, %d", aid, bid)
		}
	})

	want := n * (n - 1) / 2
	if visits != want {
		t.Errorf("visited %d pairs, want %d", visits, want)
	}
}

func TestList_EachPairBothMutable(t *testing.T) {
	var l List
	a := l.Push(makeBody("a"))
	b := l.Push(makeBody("b"))

	l.EachPair(func(_ ID, x *Body, _ ID, y *Body) {
		x.Vel.X += 1
		y.Vel.X -= 1
	})

	if l.Get(a).Vel.X != 1 || l.Get(b).Vel.X != -1 {
		t.Errorf("pair mutation lost: %v, %v", l.Get(a).Vel, l.Get(b).Vel)
	}
}

func TestList_CloneIndependence(t *testing.T) {
	var l List
	id := l.Push(makeBody("a"))

	c := l.Clone()
	if c.Len() != 1 || c.Get(id) == nil {
		t.Fatal("clone did not preserve ids")
	}

	c.Get(id).Pos.X = 42
	if l.Get(id).Pos.X == 42 {
		t.Error("clone shares storage with original")
	}
}

func TestBody_Mass(t *testing.T) {
	b := Body{Radius: 2, Density: 3}
	want := 3 * math.Pi * 4
	if math.Abs(b.Mass()-want) > 1e-12 {
		t.Errorf("Mass = %v, want %v", b.Mass(), want)
	}
}

func TestVec3_Hex(t *testing.T) {
	tests := []struct {
		in   Vec3
		want string
	}{
		{Vec3{X: 1, Y: 1, Z: 1}, "#ffffff"},
		{Vec3{}, "#000000"},
		{Vec3{X: 2, Y: -1, Z: 0.5}, "#ff007f"},
	}
	for _, tt := range tests {
		if got := tt.in.Hex(); got != tt.want {
			t.Errorf("Hex(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVec2_Normalize(t *testing.T) {
	v := Vec2{X: 3, Y: 4}.Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("normalized length = %v", v.Len())
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
}
