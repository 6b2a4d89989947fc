package server

import (
	"fmt"
	"sort"
)

// resourcePool tracks which of the platform's identical resource units are
// free at the current instant. This is the snapshot form of the tracker,
// used by the policies that do not reason about time (fcfs, easy,
// and the instantaneous half of the backfilling checks).
//
// Invariant: free ∪ (union of running allocations) = {0..size-1}, disjoint.
type resourcePool struct {
	size int
	free map[int]struct{}
}

// newResourcePool creates a pool with all resources 0..size-1 free.
func newResourcePool(size int) *resourcePool {
	p := &resourcePool{size: size, free: make(map[int]struct{}, size)}
	for i := 0; i < size; i++ {
		p.free[i] = struct{}{}
	}
	return p
}

func (p *resourcePool) numFree() int {
	return len(p.free)
}

// freeIDs returns the free resource ids in ascending order.
func (p *resourcePool) freeIDs() []int {
	ids := make([]int, 0, len(p.free))
	for id := range p.free {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// lowest returns the k numerically smallest free ids.
// Callers must have checked numFree() >= k.
func (p *resourcePool) lowest(k int) []int {
	return p.freeIDs()[:k]
}

// take removes ids from the free set. Taking an id that is not free is a
// caller bug, never expected with correct policy code.
func (p *resourcePool) take(ids []int) {
	for _, id := range ids {
		if _, ok := p.free[id]; !ok {
			panic(fmt.Sprintf("resourcePool.take: resource %d is not free", id))
		}
		delete(p.free, id)
	}
}

// release returns ids to the free set. Releasing an already-free id is a
// no-op, so duplicate completion events cannot corrupt the free set.
func (p *resourcePool) release(ids []int) {
	for _, id := range ids {
		if id >= 0 && id < p.size {
			p.free[id] = struct{}{}
		}
	}
}

// contiguousRun scans ascending ids for the first run of exactly k
// consecutive integers and returns it, or nil if no such run exists.
func contiguousRun(ids []int, k int) []int {
	if k <= 0 {
		return nil
	}
	var run []int
	for _, id := range ids {
		if len(run) == 0 || id == run[len(run)-1]+1 {
			run = append(run, id)
		} else {
			run = []int{id}
		}
		if len(run) == k {
			return run
		}
	}
	return nil
}

// isContiguous reports whether ascending ids form one consecutive run.
func isContiguous(ids []int) bool {
	for i := 1; i < len(ids); i++ {
		if ids[i]-ids[i-1] != 1 {
			return false
		}
	}
	return true
}
