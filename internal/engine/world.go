package engine

import (
	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/timeline"
	"github.com/san-kum/orbitlab/internal/universe"
)

// DefaultLookahead is how many future snapshots the generator keeps ready
// unless the caller asks for something else.
const DefaultLookahead = 20000

// World ties together the timeline, the playback cursor and the background
// generator. Its methods belong to the interactive loop's goroutine; the
// producer is the only other party and is reached solely through the guarded
// generator state.
type World struct {
	Name     string
	Timeline *timeline.Timeline

	Current   int
	StepSize  float64
	Speed     float64
	Playing   bool
	Lookahead int

	accumulated float64
	modified    bool

	gen *Generator
}

// NewWorld starts a world at first and spawns its generator.
func NewWorld(name string, first *universe.Universe, stepSize float64) *World {
	w := &World{
		Name:      name,
		Timeline:  timeline.New(first),
		StepSize:  stepSize,
		Speed:     1.0,
		Lookahead: DefaultLookahead,
	}
	w.gen = NewGenerator(w.Timeline.Last(), w.targetSize(), stepSize)
	return w
}

// NewWorldFrom rebuilds a world from an already materialized run of
// snapshots, e.g. a decoded save, and seeds the generator from the last one.
func NewWorldFrom(name string, states []*universe.Universe, current int, stepSize, speed float64, lookahead int) *World {
	w := &World{
		Name:      name,
		Timeline:  timeline.From(states),
		StepSize:  stepSize,
		Speed:     speed,
		Lookahead: lookahead,
	}
	w.SetCurrent(current)
	w.gen = NewGenerator(w.Timeline.Last(), w.targetSize(), stepSize)
	return w
}

// Close stops the background generator.
func (w *World) Close() { w.gen.Stop() }

func (w *World) targetSize() int {
	t := w.Lookahead - (w.Timeline.Len() - w.Current)
	if t < 0 {
		t = 0
	}
	return t
}

// Present returns the snapshot under the cursor.
func (w *World) Present() *universe.Universe { return w.Timeline.Get(w.Current) }

// Time returns the simulated time at the cursor.
func (w *World) Time() float64 { return float64(w.Current) * w.StepSize }

// MarkModified records that the present snapshot was edited in place. The
// next SyncFuture invalidates every precomputed future.
func (w *World) MarkModified() { w.modified = true }

// Modified reports whether an edit is waiting to be reconciled.
func (w *World) Modified() bool { return w.modified }

// AddBodyAt inserts a default body at pos into the present snapshot.
func (w *World) AddBodyAt(pos body.Vec2) body.ID {
	w.modified = true
	return w.Present().Bodies.Push(body.Body{
		Name:    "Unnamed",
		Pos:     pos,
		Radius:  1.0,
		Density: 1.0,
		Color:   body.Vec3{X: 1, Y: 1, Z: 1},
	})
}

// RemoveBody deletes a body from the present snapshot. Removing an id that no
// longer exists at this time is a no-op.
func (w *World) RemoveBody(id body.ID) {
	if _, ok := w.Present().Bodies.Remove(id); ok {
		w.modified = true
	}
}

// SetGravity changes the present snapshot's gravitational constant.
func (w *World) SetGravity(g float64) {
	w.Present().Gravity = g
	w.modified = true
}

// MoveTime advances the cursor according to elapsed wall time and playback
// speed, one step per StepSize of accumulated simulated time, never past the
// end of the timeline.
func (w *World) MoveTime(wallDt float64) {
	if !w.Playing {
		return
	}
	add := wallDt * w.Speed
	if add > 0 {
		w.accumulated += add
	}
	for w.accumulated >= w.StepSize {
		if w.Current+1 >= w.Timeline.Len() {
			break
		}
		w.Current++
		w.accumulated -= w.StepSize
	}
}

// SetCurrent moves the cursor, clamped to the timeline.
func (w *World) SetCurrent(i int) {
	if i < 0 {
		i = 0
	}
	if i >= w.Timeline.Len() {
		i = w.Timeline.Len() - 1
	}
	w.Current = i
}

// SetSpeed sets the playback speed; negative values clamp to zero.
func (w *World) SetSpeed(s float64) {
	if s < 0 {
		s = 0
	}
	w.Speed = s
}

// SetLookahead sets how many future snapshots to keep precomputed.
func (w *World) SetLookahead(n int) {
	if n < 0 {
		n = 0
	}
	w.Lookahead = n
}

// SetStepSize switches the integration step. Buffered futures were computed
// with the old step, so this counts as an edit of the present.
func (w *World) SetStepSize(dt float64) {
	if dt <= 0 || dt == w.StepSize {
		return
	}
	w.StepSize = dt
	w.modified = true
}

// DeletePast discards history before the cursor. Futures stay valid: the
// distance from cursor to timeline end is unchanged.
func (w *World) DeletePast() {
	w.Timeline.DropBefore(w.Current)
	w.Current = 0
}

// DeleteFuture invalidates everything after the cursor on the next sync.
func (w *World) DeleteFuture() { w.modified = true }

// SyncFuture runs the consumer half of the generation hand-off; call once per
// frame. If the present was edited, the stale future is truncated and the
// producer re-seeded from a clone of the edited snapshot; otherwise buffered
// futures are drained into the timeline in production order. Either way the
// target is recomputed and the producer signaled exactly once.
func (w *World) SyncFuture() {
	g := w.gen
	g.mu.Lock()
	if w.modified {
		w.modified = false
		w.Timeline.TruncateAfter(w.Current)
		g.state.stepSize = w.StepSize
		g.state.seed = w.Present().Clone()
		g.state.pending = nil
		g.state.target = w.targetSize()
	} else {
		for _, u := range g.state.pending {
			w.Timeline.Append(u)
		}
		g.state.pending = nil
		g.state.target = w.targetSize()
	}
	g.mu.Unlock()
	g.cond.Signal()
}
