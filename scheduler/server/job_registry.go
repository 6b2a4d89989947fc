package server

import (
	"github.com/hpcsim/bsched/scheduler/domain"
)

// jobRegistry owns every job record the scheduler tracks: the pending queue
// in arrival order, the running set, and each running job's allocation.
// Allocations are removed atomically with the job's completion.
type jobRegistry struct {
	pending     []*domain.Job
	running     map[string]*domain.Job
	allocations map[string]domain.Allocation
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{
		running:     make(map[string]*domain.Job),
		allocations: make(map[string]domain.Allocation),
	}
}

// enqueue appends a submitted job to the tail of the pending queue.
func (r *jobRegistry) enqueue(job *domain.Job) {
	r.pending = append(r.pending, job)
}

// head returns the front of the pending queue, or nil if the queue is empty.
// The head is privileged: it is always evaluated first by the policy loop.
func (r *jobRegistry) head() *domain.Job {
	if len(r.pending) == 0 {
		return nil
	}
	return r.pending[0]
}

// backfillCandidates returns the pending jobs behind the head, in queue order.
func (r *jobRegistry) backfillCandidates() []*domain.Job {
	if len(r.pending) <= 1 {
		return nil
	}
	return r.pending[1:]
}

func (r *jobRegistry) numPending() int {
	return len(r.pending)
}

func (r *jobRegistry) numRunning() int {
	return len(r.running)
}

// markRunning transitions a pending job to running with the given allocation,
// erasing it from wherever it sits in the queue (head for a normal start,
// an arbitrary position for a backfill).
func (r *jobRegistry) markRunning(job *domain.Job, alloc domain.Allocation) {
	for i, j := range r.pending {
		if j.ID == job.ID {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			break
		}
	}
	r.running[job.ID] = job
	r.allocations[job.ID] = alloc
}

// complete removes a running job and returns its allocation. Completion of a
// job that is not running (rejected, duplicate event, or never seen) returns
// ok=false and changes nothing.
func (r *jobRegistry) complete(jobID string) (domain.Allocation, bool) {
	if _, ok := r.running[jobID]; !ok {
		return domain.Allocation{}, false
	}
	alloc := r.allocations[jobID]
	delete(r.running, jobID)
	delete(r.allocations, jobID)
	return alloc, true
}

// runningAllocations returns the live allocations, for invariant checks and
// diagnostics. The slice is freshly built; mutating it has no effect.
func (r *jobRegistry) runningAllocations() []domain.Allocation {
	allocs := make([]domain.Allocation, 0, len(r.allocations))
	for _, a := range r.allocations {
		allocs = append(allocs, a)
	}
	return allocs
}
