package sim

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/domain"
	"github.com/hpcsim/bsched/scheduler/server"
)

// Result summarizes one simulated run.
type Result struct {
	// Makespan is the completion time of the last job, in simulation units.
	Makespan int
	Started  int
	Rejected int
	Cycles   int
}

// Simulator replays a workload against a scheduler, acting as the resource
// manager: submissions arrive at their arrival times and each started job
// completes exactly at its requested walltime.
type Simulator struct {
	scheduler server.Scheduler
	limiter   *rate.Limiter
}

// NewSimulator builds a simulator around a fresh scheduler for the named
// policy. cyclesPerSec > 0 paces the replay in wall-clock time; 0 runs flat
// out.
func NewSimulator(policyName string, stat stats.StatsReceiver, cyclesPerSec float64) (*Simulator, error) {
	scheduler, err := server.NewScheduler(policyName, stat, server.NoopListener())
	if err != nil {
		return nil, err
	}
	var limiter *rate.Limiter
	if cyclesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cyclesPerSec), 1)
	}
	return &Simulator{scheduler: scheduler, limiter: limiter}, nil
}

// Run drives the workload to completion and verifies along the way that no
// two concurrently running jobs share a resource.
func (s *Simulator) Run(ctx context.Context, platformSize int, workload []Submission) (*Result, error) {
	arrivalsAt := map[int][]domain.Job{}
	walltimes := make(map[string]int, len(workload))
	lastArrival := 0
	for _, sub := range workload {
		if sub.ArrivalTime < 0 {
			return nil, errors.Errorf("job %s has negative arrival time %d", sub.Job.ID, sub.ArrivalTime)
		}
		arrivalsAt[sub.ArrivalTime] = append(arrivalsAt[sub.ArrivalTime], sub.Job)
		walltimes[sub.Job.ID] = sub.Job.Walltime
		if sub.ArrivalTime > lastArrival {
			lastArrival = sub.ArrivalTime
		}
	}

	result := &Result{}
	occupancy := map[int]string{} // resource id -> running job
	completionsAt := map[int][]string{}

	apply := func(now int, decisions []domain.Decision) error {
		for _, d := range decisions {
			switch d.Kind {
			case domain.DecisionRejectJob:
				result.Rejected++
			case domain.DecisionExecuteJob:
				for _, id := range d.Resources {
					if other, busy := occupancy[id]; busy {
						return errors.Errorf("resource %d double-booked by %s and %s at %d", id, other, d.JobID, now)
					}
					occupancy[id] = d.JobID
				}
				result.Started++
				// Jobs without a walltime are modeled as one-unit runs.
				wall := walltimes[d.JobID]
				if wall < 1 {
					wall = 1
				}
				end := now + wall
				completionsAt[end] = append(completionsAt[end], d.JobID)
				if end > result.Makespan {
					result.Makespan = end
				}
			}
		}
		return nil
	}

	cycle := func(now int, events []domain.Event) error {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		result.Cycles++
		return apply(now, s.scheduler.TakeDecisions(float64(now), events))
	}

	begin := []domain.Event{{Kind: domain.KindSimulationBegins, PlatformSize: platformSize}}
	completed := 0

	// Serial execution of the whole workload, after the last arrival, bounds
	// the drain time.
	limit := lastArrival + 1
	for _, sub := range workload {
		limit += sub.Job.Walltime + 1
	}

	for now := 0; now <= limit && completed+result.Rejected < len(workload); now++ {
		events := begin
		begin = nil

		for _, id := range completionsAt[now] {
			events = append(events, domain.Event{Kind: domain.KindJobCompleted, JobID: id})
			for rid, owner := range occupancy {
				if owner == id {
					delete(occupancy, rid)
				}
			}
			completed++
		}
		delete(completionsAt, now)

		for _, job := range arrivalsAt[now] {
			events = append(events, domain.Event{Kind: domain.KindJobSubmitted, Job: job})
		}
		delete(arrivalsAt, now)

		if len(events) == 0 {
			continue
		}
		if err := cycle(now, events); err != nil {
			return nil, err
		}
	}

	if completed+result.Rejected < len(workload) {
		return nil, errors.Errorf("workload did not drain: %d of %d jobs finished", completed, len(workload))
	}

	log.WithFields(log.Fields{
		"policy":   s.scheduler.PolicyName(),
		"jobs":     len(workload),
		"started":  result.Started,
		"rejected": result.Rejected,
		"makespan": result.Makespan,
		"cycles":   result.Cycles,
	}).Info("Simulation finished")
	return result, nil
}
