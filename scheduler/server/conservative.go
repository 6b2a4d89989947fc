package server

import (
	"github.com/hpcsim/bsched/scheduler/domain"
)

// conservativePolicy implements conservative backfilling over the
// time-indexed reservation table. A job may only start if the chosen
// resource subset stays free for the job's entire walltime, so a backfilled
// job can never collide with capacity already reserved for jobs ahead of it.
type conservativePolicy struct {
	table *reservationTable
}

func (p *conservativePolicy) name() string { return PolicyConservative }

func (p *conservativePolicy) setPlatformSize(n int) {
	p.table = newReservationTable(n)
}

// feasibleNow picks the numerically smallest ids free at now and verifies the
// same subset is free in every slot of [now, now+walltime). If any slot has
// lost one of them to an existing reservation, the head cannot start yet.
func (p *conservativePolicy) feasibleNow(job *domain.Job, now int) ([]int, bool) {
	if p.table == nil || p.table.numFreeAt(now) < job.NumResources {
		return nil, false
	}
	wall := reservedWalltime(job)
	p.table.ensureHorizon(now + wall)

	ids := p.table.freeIDsAt(now)[:job.NumResources]
	for slot := now + 1; slot < now+wall; slot++ {
		if !p.table.containsAll(slot, ids) {
			return nil, false
		}
	}
	return ids, true
}

// feasibleBackfill starts from the snapshot of resources free at now and
// intersects it with each slot of the candidate's window, in order. The
// candidate is feasible only if the intersection still holds at least the
// requested count after the full walltime has been consumed; the smallest
// ids of the final intersection are picked.
func (p *conservativePolicy) feasibleBackfill(job *domain.Job, now int) ([]int, bool) {
	ids, ok := p.backfillWindow(job, now)
	if !ok {
		return nil, false
	}
	return ids[:job.NumResources], true
}

// backfillWindow runs the shared intersection procedure and returns the full
// final intersection (ascending), so variants can apply their own selection.
func (p *conservativePolicy) backfillWindow(job *domain.Job, now int) ([]int, bool) {
	if p.table == nil || p.table.numFreeAt(now) < job.NumResources {
		return nil, false
	}
	wall := reservedWalltime(job)
	p.table.ensureHorizon(now + wall)

	ids := p.table.freeIDsAt(now)
	for slot := now; slot < now+wall; slot++ {
		ids = p.table.intersectSlot(ids, slot)
		if len(ids) < job.NumResources {
			return nil, false
		}
	}
	return ids, true
}

func (p *conservativePolicy) commit(alloc domain.Allocation) {
	p.table.takeInterval(alloc.Resources, alloc.StartTime, alloc.StartTime+reservedWalltimeOf(alloc))
}

// release frees the job's resources in every slot from the completion instant
// through the table's horizon. Slots already behind now are left as history.
func (p *conservativePolicy) release(alloc domain.Allocation, now int) {
	p.table.releaseFrom(alloc.Resources, now)
}

func (p *conservativePolicy) numFree(now int) int {
	if p.table == nil {
		return 0
	}
	return p.table.numFreeAt(now)
}

func (p *conservativePolicy) debugState(now int) string {
	if p.table == nil {
		return "uninitialized"
	}
	return p.table.dump()
}

// reservedWalltimeOf mirrors reservedWalltime for an already-built allocation.
func reservedWalltimeOf(alloc domain.Allocation) int {
	if alloc.Walltime < 1 {
		return 1
	}
	return alloc.Walltime
}
