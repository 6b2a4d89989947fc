package server

import (
	"github.com/luci/go-render/render"
	log "github.com/sirupsen/logrus"

	"github.com/hpcsim/bsched/scheduler/domain"
)

// Listener is notified at well-defined points of a decision cycle. It exists
// for diagnostics only: implementations must not mutate scheduler state, and
// the scheduler behaves identically with the noop implementation.
type Listener interface {
	// Begin cycle
	CycleStart(now int, pending, running int)

	// Events
	JobQueued(job *domain.Job)
	JobRejected(jobID string)
	JobCompleted(jobID string, alloc domain.Allocation)

	// Decisions
	JobStarted(alloc domain.Allocation, backfilled bool)

	// End cycle
	CycleEnd(numDecisions int)
}

type noopListener struct{}

func (l *noopListener) CycleStart(now int, pending, running int)            {}
func (l *noopListener) JobQueued(job *domain.Job)                           {}
func (l *noopListener) JobRejected(jobID string)                            {}
func (l *noopListener) JobCompleted(jobID string, alloc domain.Allocation)  {}
func (l *noopListener) JobStarted(alloc domain.Allocation, backfilled bool) {}
func (l *noopListener) CycleEnd(numDecisions int)                           {}

// NoopListener returns a listener that ignores every notification.
func NoopListener() Listener {
	return &noopListener{}
}

// LoggingListener returns a listener that logs every notification.
func LoggingListener() Listener {
	return &loggingListener{}
}

type loggingListener struct{}

func (l *loggingListener) CycleStart(now int, pending, running int) {
	log.WithFields(log.Fields{
		"now":     now,
		"pending": pending,
		"running": running,
	}).Info("Decision cycle start")
}

func (l *loggingListener) JobQueued(job *domain.Job) {
	log.WithFields(log.Fields{"jobID": job.ID}).Info("Job queued ", render.Render(*job))
}

func (l *loggingListener) JobRejected(jobID string) {
	log.WithFields(log.Fields{"jobID": jobID}).Info("Job rejected")
}

func (l *loggingListener) JobCompleted(jobID string, alloc domain.Allocation) {
	log.WithFields(log.Fields{"jobID": jobID}).Info("Job completed ", render.Render(alloc))
}

func (l *loggingListener) JobStarted(alloc domain.Allocation, backfilled bool) {
	log.WithFields(log.Fields{
		"jobID":      alloc.JobID,
		"backfilled": backfilled,
	}).Info("Job started ", render.Render(alloc))
}

func (l *loggingListener) CycleEnd(numDecisions int) {
	log.WithFields(log.Fields{"numDecisions": numDecisions}).Info("Decision cycle end")
}
