package server

import (
	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/domain"
)

// bestContiguousPolicy is conservative backfilling with a placement
// preference: out of the resources that survive the window intersection, it
// picks the first contiguous run of exactly the requested length, falling
// back to the smallest ids when no such run exists. Contiguous and
// non-contiguous picks are counted for observability; correctness is
// identical to the conservative variant.
type bestContiguousPolicy struct {
	conservativePolicy
	stat stats.StatsReceiver
}

func (p *bestContiguousPolicy) name() string { return PolicyBestContiguous }

func (p *bestContiguousPolicy) feasibleBackfill(job *domain.Job, now int) ([]int, bool) {
	ids, ok := p.backfillWindow(job, now)
	if !ok {
		return nil, false
	}
	if run := contiguousRun(ids, job.NumResources); run != nil {
		p.stat.Counter(stats.SchedContiguousBackfillsCounter).Inc(1)
		return run, true
	}
	p.stat.Counter(stats.SchedNonContiguousBackfillsCounter).Inc(1)
	return ids[:job.NumResources], true
}
