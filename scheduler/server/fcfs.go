package server

import (
	"fmt"

	"github.com/hpcsim/bsched/scheduler/domain"
)

// fcfsPolicy runs jobs strictly in arrival order: the head starts as soon as
// enough resources are free, and nothing behind it is ever considered.
type fcfsPolicy struct {
	pool *resourcePool
}

func (p *fcfsPolicy) name() string { return PolicyFcfs }

func (p *fcfsPolicy) setPlatformSize(n int) {
	p.pool = newResourcePool(n)
}

func (p *fcfsPolicy) feasibleNow(job *domain.Job, now int) ([]int, bool) {
	if p.pool == nil || p.pool.numFree() < job.NumResources {
		return nil, false
	}
	return p.pool.lowest(job.NumResources), true
}

// feasibleBackfill always fails: fcfs never starts a job ahead of the head.
func (p *fcfsPolicy) feasibleBackfill(job *domain.Job, now int) ([]int, bool) {
	return nil, false
}

func (p *fcfsPolicy) commit(alloc domain.Allocation) {
	p.pool.take(alloc.Resources)
}

func (p *fcfsPolicy) release(alloc domain.Allocation, now int) {
	p.pool.release(alloc.Resources)
}

func (p *fcfsPolicy) numFree(now int) int {
	if p.pool == nil {
		return 0
	}
	return p.pool.numFree()
}

func (p *fcfsPolicy) debugState(now int) string {
	if p.pool == nil {
		return "uninitialized"
	}
	return fmt.Sprintf("free: %v", p.pool.freeIDs())
}
