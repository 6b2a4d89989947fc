// Package server provides the batch scheduling core for bsched: the pending
// queue, the resource trackers, and the allocation policies that decide which
// queued jobs start on which resources at each decision cycle.
package server

import (
	log "github.com/sirupsen/logrus"

	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/domain"
)

// Version reported in handshake acknowledgements.
const Version = "1.0.0"

// Scheduler computes scheduling decisions for batches of events.
//
// A Scheduler is a single-actor, purely in-memory state machine: it is NOT
// safe for concurrent use, and callers must never start a new decision cycle
// while a previous one is in flight. Users driving it from multiple
// goroutines must serialize all calls externally.
type Scheduler interface {
	// TakeDecisions applies one ordered event batch at simulation time now,
	// runs the allocation policy until no further progress is possible, and
	// returns the decisions made, in the order they were generated.
	// Rejections raised during event ingestion precede policy decisions.
	TakeDecisions(now float64, events []domain.Event) []domain.Decision

	// PlatformSize returns the resource count recorded at simulation start,
	// or 0 before then.
	PlatformSize() int

	// PolicyName returns the configured allocation policy's name.
	PolicyName() string
}

// NewScheduler creates a scheduler using the named allocation policy.
// An unrecognized policy name is a configuration error.
func NewScheduler(policyName string, stat stats.StatsReceiver, listener Listener) (Scheduler, error) {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	if listener == nil {
		listener = NoopListener()
	}
	policy, err := newPolicy(policyName, stat)
	if err != nil {
		return nil, err
	}
	return &batchScheduler{
		policy:   policy,
		registry: newJobRegistry(),
		stat:     stat,
		listener: listener,
	}, nil
}

type batchScheduler struct {
	policy       allocationPolicy
	registry     *jobRegistry
	platformSize int
	stat         stats.StatsReceiver
	listener     Listener
}

func (s *batchScheduler) PlatformSize() int {
	return s.platformSize
}

func (s *batchScheduler) PolicyName() string {
	return s.policy.name()
}

func (s *batchScheduler) TakeDecisions(nowF float64, events []domain.Event) []domain.Decision {
	// The reservation table is indexed by integer-truncated simulation time.
	now := int(nowF)
	s.stat.Counter(stats.SchedDecideCyclesCounter).Inc(1)

	decisions := s.ingest(now, events)

	s.listener.CycleStart(now, s.registry.numPending(), s.registry.numRunning())
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("Tracker state at %d: %s", now, s.policy.debugState(now))
	}

	decisions = append(decisions, s.runCycle(now)...)
	s.listener.CycleEnd(len(decisions))

	s.stat.Gauge(stats.SchedFreeResourcesGauge).Update(int64(s.policy.numFree(now)))
	s.stat.Gauge(stats.SchedPendingJobsGauge).Update(int64(s.registry.numPending()))
	s.stat.Gauge(stats.SchedRunningJobsGauge).Update(int64(s.registry.numRunning()))
	return decisions
}

// ingest applies the event batch, strictly in arrival order, and returns the
// decisions the events themselves produce (handshake acks, rejections).
func (s *batchScheduler) ingest(now int, events []domain.Event) []domain.Decision {
	var decisions []domain.Decision
	for _, event := range events {
		switch event.Kind {
		case domain.KindHandshake:
			decisions = append(decisions, domain.NewAcknowledgeHandshake(s.policy.name(), Version))

		case domain.KindSimulationBegins:
			s.platformSize = event.PlatformSize
			s.policy.setPlatformSize(event.PlatformSize)
			s.stat.Gauge(stats.SchedPlatformSizeGauge).Update(int64(event.PlatformSize))
			log.WithFields(log.Fields{
				"platformSize": event.PlatformSize,
				"policy":       s.policy.name(),
			}).Info("Simulation started")

		case domain.KindJobSubmitted:
			job := event.Job
			if job.NumResources < 1 || job.NumResources > s.platformSize {
				// Permanently unsatisfiable; reject instead of queueing.
				decisions = append(decisions, domain.NewRejectJob(job.ID))
				s.stat.Counter(stats.SchedJobsRejectedCounter).Inc(1)
				s.listener.JobRejected(job.ID)
				log.WithFields(log.Fields{
					"jobID":        job.ID,
					"numResources": job.NumResources,
					"platformSize": s.platformSize,
				}).Info("Rejecting job, request exceeds platform size")
				continue
			}
			s.registry.enqueue(&job)
			s.listener.JobQueued(&job)

		case domain.KindJobCompleted:
			alloc, ok := s.registry.complete(event.JobID)
			if !ok {
				// Completion for a job we never tracked (e.g. rejected) or a
				// duplicate event. Not an error.
				s.stat.Counter(stats.SchedUnknownCompletionsCounter).Inc(1)
				log.WithFields(log.Fields{"jobID": event.JobID}).Debug("Ignoring completion for untracked job")
				continue
			}
			s.policy.release(alloc, now)
			s.listener.JobCompleted(event.JobID, alloc)

		default:
			// Unknown kinds are ignored for forward compatibility.
			s.stat.Counter(stats.SchedUnknownEventsCounter).Inc(1)
			log.Debug("Ignoring event of unknown kind")
		}
	}
	return decisions
}

// runCycle runs the shared policy loop of all variants: start the head while
// it fits, otherwise attempt at most one backfill and end the cycle. The
// single-backfill bound keeps worst-case decision latency proportional to one
// queue scan.
func (s *batchScheduler) runCycle(now int) []domain.Decision {
	var decisions []domain.Decision
	for {
		head := s.registry.head()
		if head == nil {
			break
		}

		if ids, ok := s.policy.feasibleNow(head, now); ok {
			decisions = append(decisions, s.start(head, ids, now, false))
			// Resources may still allow the new head to start too.
			continue
		}

		// The head cannot start now. Scan the rest of the queue for the first
		// candidate the policy accepts, then end the cycle whether or not one
		// was found.
		for _, candidate := range s.registry.backfillCandidates() {
			if ids, ok := s.policy.feasibleBackfill(candidate, now); ok {
				decisions = append(decisions, s.start(candidate, ids, now, true))
				s.stat.Counter(stats.SchedJobsBackfilledCounter).Inc(1)
				break
			}
		}
		break
	}
	return decisions
}

// start commits an allocation, transitions the job to running, and emits the
// execute decision.
func (s *batchScheduler) start(job *domain.Job, ids []int, now int, backfilled bool) domain.Decision {
	alloc := domain.Allocation{
		JobID:     job.ID,
		Resources: ids,
		StartTime: now,
		Walltime:  job.Walltime,
	}
	s.policy.commit(alloc)
	s.registry.markRunning(job, alloc)
	s.stat.Counter(stats.SchedJobsStartedCounter).Inc(1)
	s.listener.JobStarted(alloc, backfilled)
	return domain.NewExecuteJob(job.ID, ids)
}
