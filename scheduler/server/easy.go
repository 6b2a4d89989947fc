package server

import (
	"fmt"

	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/domain"
)

// easyPolicy is EASY backfilling: feasibility is instantaneous only. When the
// head does not fit, the first later job whose request fits the current free
// set is started in its place, with no reservation made for the head and no
// delay guarantee offered to it.
type easyPolicy struct {
	pool *resourcePool
	stat stats.StatsReceiver
}

func (p *easyPolicy) name() string { return PolicyEasy }

func (p *easyPolicy) setPlatformSize(n int) {
	p.pool = newResourcePool(n)
}

func (p *easyPolicy) feasibleNow(job *domain.Job, now int) ([]int, bool) {
	if p.pool == nil || p.pool.numFree() < job.NumResources {
		return nil, false
	}
	return p.pool.lowest(job.NumResources), true
}

// feasibleBackfill applies the same instantaneous test to a candidate behind
// the head. Contiguity of the picked ids is tracked as an observability
// metric only.
func (p *easyPolicy) feasibleBackfill(job *domain.Job, now int) ([]int, bool) {
	ids, ok := p.feasibleNow(job, now)
	if !ok {
		return nil, false
	}
	if isContiguous(ids) {
		p.stat.Counter(stats.SchedContiguousBackfillsCounter).Inc(1)
	} else {
		p.stat.Counter(stats.SchedNonContiguousBackfillsCounter).Inc(1)
	}
	return ids, true
}

func (p *easyPolicy) commit(alloc domain.Allocation) {
	p.pool.take(alloc.Resources)
}

func (p *easyPolicy) release(alloc domain.Allocation, now int) {
	p.pool.release(alloc.Resources)
}

func (p *easyPolicy) numFree(now int) int {
	if p.pool == nil {
		return 0
	}
	return p.pool.numFree()
}

func (p *easyPolicy) debugState(now int) string {
	if p.pool == nil {
		return "uninitialized"
	}
	return fmt.Sprintf("free: %v", p.pool.freeIDs())
}
