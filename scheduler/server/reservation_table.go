package server

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
)

// reservationTable is the time-indexed form of the resource tracker, used by
// the duration-aware policies. Each slot holds the set of resource ids free
// during that integer time unit; the table grows lazily toward the future and
// is never shrunk, so entries behind the current time remain as history.
//
// Invariant: for every slot t, free[t] ∪ (union of allocations overlapping t)
// = {0..size-1}, disjoint — provided completions arrive no later than the end
// of their reserved interval. Releases are approximate: completion frees the
// job's ids in every slot from the completion instant through the current
// horizon and does not revisit already-passed slots.
type reservationTable struct {
	size  int
	slots []map[int]struct{}
}

func newReservationTable(size int) *reservationTable {
	t := &reservationTable{size: size}
	t.ensureHorizon(0)
	return t
}

func (t *reservationTable) horizon() int {
	return len(t.slots)
}

// ensureHorizon extends the table so that the given slot exists, initializing
// newly created slots to all-resources-free. Must be called before reading or
// writing a slot beyond the current length.
func (t *reservationTable) ensureHorizon(slot int) {
	for len(t.slots) <= slot {
		free := make(map[int]struct{}, t.size)
		for i := 0; i < t.size; i++ {
			free[i] = struct{}{}
		}
		t.slots = append(t.slots, free)
	}
}

func (t *reservationTable) numFreeAt(slot int) int {
	t.ensureHorizon(slot)
	return len(t.slots[slot])
}

// freeIDsAt returns the free ids at the given slot in ascending order.
func (t *reservationTable) freeIDsAt(slot int) []int {
	t.ensureHorizon(slot)
	ids := make([]int, 0, len(t.slots[slot]))
	for id := range t.slots[slot] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// containsAll reports whether every id is free at the given slot.
func (t *reservationTable) containsAll(slot int, ids []int) bool {
	t.ensureHorizon(slot)
	for _, id := range ids {
		if _, ok := t.slots[slot][id]; !ok {
			return false
		}
	}
	return true
}

// intersectSlot returns the ascending subset of ids that is free at slot.
func (t *reservationTable) intersectSlot(ids []int, slot int) []int {
	t.ensureHorizon(slot)
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := t.slots[slot][id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// takeInterval removes ids from every slot in [start, end). Taking an id
// that is not free in one of the slots is a caller bug.
func (t *reservationTable) takeInterval(ids []int, start, end int) {
	if end > 0 {
		t.ensureHorizon(end - 1)
	}
	for slot := start; slot < end; slot++ {
		for _, id := range ids {
			if _, ok := t.slots[slot][id]; !ok {
				panic(fmt.Sprintf("reservationTable.takeInterval: resource %d is not free at slot %d", id, slot))
			}
			delete(t.slots[slot], id)
		}
	}
}

// releaseFrom returns ids to the free set of every slot from the given slot
// through the current horizon. Inserting an already-free id is a no-op, so
// duplicate completions cannot corrupt a slot.
func (t *reservationTable) releaseFrom(ids []int, slot int) {
	if slot < 0 {
		slot = 0
	}
	for s := slot; s < len(t.slots); s++ {
		for _, id := range ids {
			if id >= 0 && id < t.size {
				t.slots[s][id] = struct{}{}
			}
		}
	}
}

func (t *reservationTable) dump() string {
	free := make([][]int, len(t.slots))
	for s := range t.slots {
		free[s] = t.freeIDsAt(s)
	}
	return spew.Sprintf("reservationTable{size: %d, free: %v}", t.size, free)
}
