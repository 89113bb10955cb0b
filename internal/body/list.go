package body

import (
	"fmt"
	"sort"
)

type entry struct {
	id   ID
	body Body
}

// List is an id-ordered collection of bodies. Lookups binary-search; inserts
// and removals shift, which is fine at the body counts an interactive sandbox
// holds.
type List struct {
	entries []entry
}

func (l *List) Len() int { return len(l.entries) }

func (l *List) search(id ID) (int, bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].id >= id })
	return i, i < len(l.entries) && l.entries[i].id == id
}

// Insert adds a body under an explicit id, keeping the list ordered.
// Inserting an id that is already present is a programmer error and panics.
func (l *List) Insert(id ID, b Body) {
	i, ok := l.search(id)
	if ok {
		panic(fmt.Sprintf("body: tried to insert id %d twice", id))
	}
	l.entries = append(l.entries, entry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = entry{id: id, body: b}
}

// Push mints a fresh id for b and appends it. Minted ids are monotone, so a
// plain append preserves order.
func (l *List) Push(b Body) ID {
	id := NextID()
	l.entries = append(l.entries, entry{id: id, body: b})
	return id
}

// Remove deletes the body under id and returns it. A missing id reports
// false rather than erroring: stale selections are routine.
func (l *List) Remove(id ID) (Body, bool) {
	i, ok := l.search(id)
	if !ok {
		return Body{}, false
	}
	b := l.entries[i].body
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return b, true
}

// Get returns a pointer to the body under id, or nil when absent. The pointer
// stays valid until the next structural change to the list.
func (l *List) Get(id ID) *Body {
	i, ok := l.search(id)
	if !ok {
		return nil
	}
	return &l.entries[i].body
}

// Disjoint resolves several ids to mutable bodies at once with a no-aliasing
// guarantee: a zero or absent id resolves to nil, and an id equal to one that
// already resolved an earlier slot in the same call resolves to nil too, so no
// two returned pointers ever address the same body.
func (l *List) Disjoint(ids ...ID) []*Body {
	out := make([]*Body, len(ids))
	for i, id := range ids {
		if id == 0 {
			continue
		}
		taken := false
		for j := 0; j < i; j++ {
			if out[j] != nil && ids[j] == id {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		out[i] = l.Get(id)
	}
	return out
}

// Each visits every body in ascending id order.
func (l *List) Each(fn func(ID, *Body)) {
	for i := range l.entries {
		fn(l.entries[i].id, &l.entries[i].body)
	}
}

// EachPair visits every unordered pair of distinct bodies exactly once with
// both sides mutable; the two pointers never alias. fn must not add or remove
// bodies while iterating.
func (l *List) EachPair(fn func(ID, *Body, ID, *Body)) {
	for i := 0; i < len(l.entries); i++ {
		for j := i + 1; j < len(l.entries); j++ {
			a, b := &l.entries[i], &l.entries[j]
			fn(a.id, &a.body, b.id, &b.body)
		}
	}
}

// Clone deep-copies the list. Body values are duplicated but ids are
// preserved, which is what lets one body be tracked across a sequence of
// snapshots.
func (l *List) Clone() List {
	c := make([]entry, len(l.entries))
	copy(c, l.entries)
	return List{entries: c}
}
