package timeline

import "github.com/san-kum/orbitlab/internal/universe"

// Timeline is the ordered history of snapshots, one per discrete step, with
// index 0 the simulation start. Snapshot i+1, unless edited, is always
// Step(snapshot i).
type Timeline struct {
	states []*universe.Universe
}

// New starts a timeline at first, which becomes the authoritative origin and
// is always marked changed.
func New(first *universe.Universe) *Timeline {
	first.Changed = true
	return &Timeline{states: []*universe.Universe{first}}
}

// From rebuilds a timeline from an existing run of snapshots, e.g. one decoded
// from a save. Panics on an empty slice.
func From(states []*universe.Universe) *Timeline {
	if len(states) == 0 {
		panic("timeline: cannot build from zero states")
	}
	states[0].Changed = true
	return &Timeline{states: states}
}

func (t *Timeline) Len() int { return len(t.states) }

// Get returns the snapshot at index i. Indexing past the end is a defect, not
// a runtime condition, and panics.
func (t *Timeline) Get(i int) *universe.Universe { return t.states[i] }

// Last returns the most recent snapshot.
func (t *Timeline) Last() *universe.Universe { return t.states[len(t.states)-1] }

func (t *Timeline) Append(u *universe.Universe) { t.states = append(t.states, u) }

// All exposes the backing run of snapshots in time order. Callers must treat
// it as read-only.
func (t *Timeline) All() []*universe.Universe { return t.states }

// TruncateAfter drops every snapshot after index i and re-marks the snapshot
// at i as changed: its derived successors are gone, so it is now a point that
// cannot be reconstructed from a predecessor. Backing storage is reallocated
// so a long discarded future does not pin memory.
func (t *Timeline) TruncateAfter(i int) {
	kept := make([]*universe.Universe, i+1)
	copy(kept, t.states[:i+1])
	t.states = kept
	t.states[i].Changed = true
}

// DropBefore discards history before index i. The retained first snapshot
// becomes index 0 and is re-marked changed.
func (t *Timeline) DropBefore(i int) {
	kept := make([]*universe.Universe, len(t.states)-i)
	copy(kept, t.states[i:])
	t.states = kept
	t.states[0].Changed = true
}
