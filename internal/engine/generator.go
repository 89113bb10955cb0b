package engine

import (
	"sync"

	"github.com/san-kum/orbitlab/internal/universe"
)

// genState is the shared hand-off between the interactive loop and the
// background producer. Snapshots only ever cross it as clones, so neither
// side touches a universe the other is holding.
type genState struct {
	// seed, when set, restarts production from it and discards every
	// buffered snapshot the next time the producer looks.
	seed     *universe.Universe
	pending  []*universe.Universe
	target   int
	stepSize float64
	closed   bool
}

// Generator runs a single background worker that keeps a bounded buffer of
// future snapshots computed ahead of the consumer.
type Generator struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state genState
	wg    sync.WaitGroup
}

// NewGenerator starts the worker seeded with a clone of seed.
func NewGenerator(seed *universe.Universe, target int, stepSize float64) *Generator {
	g := &Generator{
		state: genState{
			seed:     seed.Clone(),
			target:   target,
			stepSize: stepSize,
		},
	}
	g.cond = sync.NewCond(&g.mu)
	g.wg.Add(1)
	go g.run()
	return g
}

// run is the producer loop. The expensive Step always happens outside the
// lock; after relocking, the result is dropped if a re-seed or a shrunken
// target superseded it while it was computing.
func (g *Generator) run() {
	defer g.wg.Done()

	var working *universe.Universe
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		if g.state.closed {
			return
		}
		if g.state.seed != nil {
			working = g.state.seed
			g.state.seed = nil
			g.state.pending = g.state.pending[:0]
		}
		if working == nil || len(g.state.pending) >= g.state.target {
			g.cond.Wait()
			continue
		}
		stepSize := g.state.stepSize

		g.mu.Unlock()
		next := working.Clone()
		next.Step(stepSize)
		g.mu.Lock()

		if g.state.closed {
			return
		}
		if g.state.seed != nil {
			// Superseded while stepping; the loop top adopts the new seed.
			continue
		}
		if len(g.state.pending) >= g.state.target {
			// The consumer shrank the target while we were stepping.
			g.cond.Wait()
			continue
		}
		g.state.pending = append(g.state.pending, next)
		working = next
	}
}

// Reseed invalidates all buffered output and restarts production from a clone
// of u at the given step size and target.
func (g *Generator) Reseed(u *universe.Universe, stepSize float64, target int) {
	g.mu.Lock()
	g.state.seed = u.Clone()
	g.state.stepSize = stepSize
	g.state.target = target
	g.state.pending = nil
	g.mu.Unlock()
	g.cond.Signal()
}

// Drain takes every buffered snapshot, in production order, and sets the new
// target.
func (g *Generator) Drain(target int) []*universe.Universe {
	g.mu.Lock()
	out := g.state.pending
	g.state.pending = nil
	g.state.target = target
	g.mu.Unlock()
	g.cond.Signal()
	return out
}

// Stop shuts the worker down and waits for it to exit.
func (g *Generator) Stop() {
	g.mu.Lock()
	g.state.closed = true
	g.mu.Unlock()
	g.cond.Broadcast()
	g.wg.Wait()
}
