package body

import (
	"sync"
	"testing"
)

func TestNextIDMonotonic(t *testing.T) {
	prev := NextID()
	for i := 0; i < 100; i++ {
		id := NextID()
		if id <= prev {
			t.Fatalf("NextID not monotonic: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestNextIDNeverZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		if NextID() == 0 {
			t.Fatal("NextID returned zero")
		}
	}
}

func TestNextIDConcurrentUnique(t *testing.T) {
	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[ID]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]ID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if seen[id] {
					t.Errorf("duplicate id %d", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
}
