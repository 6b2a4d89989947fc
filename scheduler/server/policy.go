package server

import (
	"github.com/pkg/errors"

	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/domain"
)

// Supported allocation policy names.
const (
	PolicyFcfs           = "fcfs"
	PolicyEasy           = "easy"
	PolicyConservative   = "conservative"
	PolicyBestContiguous = "best-contiguous"
)

// allocationPolicy is the capability interface each scheduling variant
// implements. The outer decision loop is shared (see runCycle); variants
// differ only in how they test feasibility and pick resources.
//
// feasibleNow and feasibleBackfill return the ascending resource ids the job
// would occupy starting at now, without mutating tracker state. A successful
// answer is committed by the caller via commit.
type allocationPolicy interface {
	name() string

	// setPlatformSize resets the tracker for a platform of n resources,
	// all free. Called once, on SimulationBegins.
	setPlatformSize(n int)

	// feasibleNow tests whether the queue head can start at now.
	feasibleNow(job *domain.Job, now int) ([]int, bool)

	// feasibleBackfill tests whether a job behind the head can start at now
	// without disturbing the head's queue position.
	feasibleBackfill(job *domain.Job, now int) ([]int, bool)

	// commit takes the allocation's resources out of the tracker.
	commit(alloc domain.Allocation)

	// release returns a completed job's resources to the tracker,
	// from the completion instant forward.
	release(alloc domain.Allocation, now int)

	// numFree reports the free-resource count at now, for gauges.
	numFree(now int) int

	// debugState renders tracker state for diagnostic logging.
	debugState(now int) string
}

// newPolicy constructs the named policy variant. Unrecognized names are a
// configuration error.
func newPolicy(name string, stat stats.StatsReceiver) (allocationPolicy, error) {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	switch name {
	case PolicyFcfs:
		return &fcfsPolicy{}, nil
	case PolicyEasy:
		return &easyPolicy{stat: stat}, nil
	case PolicyConservative:
		return &conservativePolicy{}, nil
	case PolicyBestContiguous:
		return &bestContiguousPolicy{conservativePolicy: conservativePolicy{}, stat: stat}, nil
	default:
		return nil, errors.Errorf("unrecognized allocation policy: %q", name)
	}
}

// reservedWalltime maps a job's requested walltime to the slot interval the
// duration-aware policies reserve. Jobs with no walltime run until their
// completion event; they get the minimum representable reservation and rely
// on the forward-release rule to recover the difference.
func reservedWalltime(job *domain.Job) int {
	if job.Walltime < 1 {
		return 1
	}
	return job.Walltime
}
