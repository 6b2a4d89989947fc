// Package domain provides definitions for bsched jobs, events and decisions.
package domain

import "fmt"

// Job is a batch job the scheduler can place on the platform.
// Identity is an opaque caller-assigned id, unique per simulation run.
type Job struct {
	ID string

	// Number of resources the job occupies while running. Jobs requesting
	// more than the platform has are rejected at submission.
	NumResources int

	// Requested duration in whole time slots. Zero means the job runs until
	// its completion event arrives; duration-aware policies reserve the
	// minimum representable interval for such jobs.
	Walltime int
}

func (j *Job) String() string {
	return fmt.Sprintf("job:%s, resources:%d, walltime:%d", j.ID, j.NumResources, j.Walltime)
}

// Allocation maps a running job to the resource ids it occupies and, for
// duration-aware policies, the half-open slot interval [StartTime, EndTime())
// it has reserved. Resources is always sorted ascending.
type Allocation struct {
	JobID     string
	Resources []int
	StartTime int
	Walltime  int
}

// EndTime returns the exclusive end of the reserved interval.
func (a Allocation) EndTime() int {
	return a.StartTime + a.Walltime
}

// Status for a job tracked by the registry.
type Status int

const (
	// Waiting in the pending queue.
	Pending Status = iota

	// Placed on resources by the allocation policy.
	Running

	// Completion event received; the job record is discarded.
	Completed
)

func (s Status) String() string {
	asString := [3]string{"Pending", "Running", "Completed"}
	return asString[s]
}

// EventKind is the closed set of event variants the scheduler dispatches on.
// Wire-level kinds outside this set map to KindUnknown and are ignored.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindHandshake
	KindSimulationBegins
	KindJobSubmitted
	KindJobCompleted
)

func (k EventKind) String() string {
	asString := [5]string{"Unknown", "Handshake", "SimulationBegins", "JobSubmitted", "JobCompleted"}
	return asString[k]
}

// Event is one entry of the ordered batch delivered to a decision cycle.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// SimulationBegins: number of resources in the platform.
	PlatformSize int

	// JobSubmitted: the submitted job.
	Job Job

	// JobCompleted: id of the completed job.
	JobID string
}

// DecisionKind tags the outbound decisions of one cycle.
type DecisionKind int

const (
	DecisionAcknowledgeHandshake DecisionKind = iota
	DecisionRejectJob
	DecisionExecuteJob
)

func (k DecisionKind) String() string {
	asString := [3]string{"AcknowledgeHandshake", "RejectJob", "ExecuteJob"}
	return asString[k]
}

// Decision is one outbound scheduling decision. Resources is ascending.
type Decision struct {
	Kind      DecisionKind
	JobID     string
	Resources []int

	// AcknowledgeHandshake only.
	Name    string
	Version string
}

func NewAcknowledgeHandshake(name, version string) Decision {
	return Decision{Kind: DecisionAcknowledgeHandshake, Name: name, Version: version}
}

func NewRejectJob(jobID string) Decision {
	return Decision{Kind: DecisionRejectJob, JobID: jobID}
}

func NewExecuteJob(jobID string, resources []int) Decision {
	return Decision{Kind: DecisionExecuteJob, JobID: jobID, Resources: resources}
}
