// Package sim generates synthetic workloads and replays them against a
// scheduler, modeling completions at each job's requested walltime. It is the
// offline harness for comparing policies and sizing decision latency.
package sim

import (
	"math/rand"

	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"

	"github.com/hpcsim/bsched/scheduler/domain"
)

// Submission is a job with its arrival instant in simulation units.
type Submission struct {
	Job         domain.Job
	ArrivalTime int
}

// WorkloadConfig bounds the random workload generator.
type WorkloadConfig struct {
	NumJobs      int
	PlatformSize int
	// MaxResources caps per-job requests; 0 means up to the platform size.
	MaxResources int
	MaxWalltime  int
	// MaxInterarrival is the largest gap between consecutive arrivals;
	// 0 submits the whole workload at time zero.
	MaxInterarrival int
	Seed            int64
}

// GenerateWorkload produces submissions with uniformly random resource
// requests, walltimes and interarrival gaps, in arrival order. Same seed,
// same workload.
func GenerateWorkload(cfg WorkloadConfig) ([]Submission, error) {
	if cfg.NumJobs < 1 || cfg.PlatformSize < 1 || cfg.MaxWalltime < 1 {
		return nil, errors.Errorf("invalid workload config: %+v", cfg)
	}
	maxResources := cfg.MaxResources
	if maxResources < 1 || maxResources > cfg.PlatformSize {
		maxResources = cfg.PlatformSize
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	submissions := make([]Submission, 0, cfg.NumJobs)
	arrival := 0
	for i := 0; i < cfg.NumJobs; i++ {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, errors.Wrap(err, "generating job id")
		}
		if cfg.MaxInterarrival > 0 && i > 0 {
			arrival += rng.Intn(cfg.MaxInterarrival + 1)
		}
		submissions = append(submissions, Submission{
			Job: domain.Job{
				ID:           id.String(),
				NumResources: 1 + rng.Intn(maxResources),
				Walltime:     1 + rng.Intn(cfg.MaxWalltime),
			},
			ArrivalTime: arrival,
		})
	}
	return submissions, nil
}
