package server

import (
	"reflect"
	"testing"

	"github.com/hpcsim/bsched/scheduler/domain"
)

func newTestScheduler(t *testing.T, policy string) Scheduler {
	t.Helper()
	s, err := NewScheduler(policy, nil, nil)
	if err != nil {
		t.Fatalf("NewScheduler(%q): %v", policy, err)
	}
	return s
}

func beginEvent(n int) domain.Event {
	return domain.Event{Kind: domain.KindSimulationBegins, PlatformSize: n}
}

func submitEvent(id string, numResources, walltime int) domain.Event {
	return domain.Event{
		Kind: domain.KindJobSubmitted,
		Job:  domain.Job{ID: id, NumResources: numResources, Walltime: walltime},
	}
}

func completeEvent(id string) domain.Event {
	return domain.Event{Kind: domain.KindJobCompleted, JobID: id}
}

// executions extracts the execute decisions as jobID -> resources.
func executions(decisions []domain.Decision) map[string][]int {
	out := map[string][]int{}
	for _, d := range decisions {
		if d.Kind == domain.DecisionExecuteJob {
			out[d.JobID] = d.Resources
		}
	}
	return out
}

func TestHandshakeAcknowledged(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	decisions := s.TakeDecisions(0, []domain.Event{{Kind: domain.KindHandshake}})
	if len(decisions) != 1 {
		t.Fatalf("got %d decisions, want 1", len(decisions))
	}
	d := decisions[0]
	if d.Kind != domain.DecisionAcknowledgeHandshake || d.Name != PolicyEasy || d.Version != Version {
		t.Errorf("unexpected acknowledgement: %+v", d)
	}
}

func TestHeadStartsAndRestQueues(t *testing.T) {
	for _, policy := range []string{PolicyFcfs, PolicyEasy, PolicyConservative, PolicyBestContiguous} {
		t.Run(policy, func(t *testing.T) {
			s := newTestScheduler(t, policy)
			s.TakeDecisions(0, []domain.Event{beginEvent(4)})

			decisions := s.TakeDecisions(0, []domain.Event{
				submitEvent("j1", 2, 10),
				submitEvent("j2", 3, 10),
			})
			execs := executions(decisions)
			if got := execs["j1"]; !reflect.DeepEqual(got, []int{0, 1}) {
				t.Errorf("j1 resources = %v, want [0 1]", got)
			}
			if _, started := execs["j2"]; started {
				t.Errorf("j2 should stay queued, only 2 resources free")
			}
		})
	}
}

func TestFcfsNeverBackfills(t *testing.T) {
	s := newTestScheduler(t, PolicyFcfs)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})
	s.TakeDecisions(0, []domain.Event{submitEvent("big", 3, 10)})

	// The head needs 3, only 1 is free; the 1-resource job behind it must
	// wait for the head under strict queue order.
	decisions := s.TakeDecisions(1, []domain.Event{
		submitEvent("head", 3, 10),
		submitEvent("small", 1, 10),
	})
	if len(executions(decisions)) != 0 {
		t.Errorf("fcfs must not start anything past a blocked head, got %v", decisions)
	}

	// Once the head starts, queue order resumes.
	decisions = s.TakeDecisions(10, []domain.Event{completeEvent("big")})
	execs := executions(decisions)
	if !reflect.DeepEqual(execs["head"], []int{0, 1, 2}) {
		t.Errorf("head resources = %v, want [0 1 2]", execs["head"])
	}
	if !reflect.DeepEqual(execs["small"], []int{3}) {
		t.Errorf("small resources = %v, want [3]", execs["small"])
	}
}

func TestEasyBackfillsAroundBlockedHead(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})
	s.TakeDecisions(0, []domain.Event{submitEvent("big", 3, 10)})

	decisions := s.TakeDecisions(1, []domain.Event{
		submitEvent("head", 3, 10),
		submitEvent("small", 1, 10),
	})
	execs := executions(decisions)
	if _, started := execs["head"]; started {
		t.Errorf("head must not start with only 1 resource free")
	}
	if !reflect.DeepEqual(execs["small"], []int{3}) {
		t.Errorf("small resources = %v, want [3]", execs["small"])
	}
}

func TestAtMostOneBackfillPerCycle(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})
	s.TakeDecisions(0, []domain.Event{submitEvent("big", 2, 10)})

	// Two resources free, two 1-resource candidates behind the blocked head.
	decisions := s.TakeDecisions(1, []domain.Event{
		submitEvent("head", 3, 10),
		submitEvent("bf1", 1, 10),
		submitEvent("bf2", 1, 10),
	})
	execs := executions(decisions)
	if len(execs) != 1 {
		t.Fatalf("want exactly one backfill this cycle, got %v", execs)
	}
	if !reflect.DeepEqual(execs["bf1"], []int{2}) {
		t.Errorf("bf1 resources = %v, want [2]", execs["bf1"])
	}

	// The next cycle may backfill the second candidate.
	decisions = s.TakeDecisions(2, nil)
	execs = executions(decisions)
	if !reflect.DeepEqual(execs["bf2"], []int{3}) {
		t.Errorf("bf2 resources = %v, want [3]", execs["bf2"])
	}
}

func TestRejectOversizedAndZeroRequests(t *testing.T) {
	s := newTestScheduler(t, PolicyConservative)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})

	decisions := s.TakeDecisions(0, []domain.Event{
		submitEvent("toobig", 3, 10),
		submitEvent("empty", 0, 10),
	})
	var rejected []string
	for _, d := range decisions {
		if d.Kind == domain.DecisionRejectJob {
			rejected = append(rejected, d.JobID)
		}
	}
	if !reflect.DeepEqual(rejected, []string{"toobig", "empty"}) {
		t.Errorf("rejected = %v, want [toobig empty]", rejected)
	}

	// Rejected jobs never entered the queue; the platform is still usable.
	decisions = s.TakeDecisions(1, []domain.Event{submitEvent("ok", 2, 5)})
	if got := executions(decisions)["ok"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("ok resources = %v, want [0 1]", got)
	}
}

func TestConservativeBackfillRespectsWindow(t *testing.T) {
	s := newTestScheduler(t, PolicyConservative)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})
	s.TakeDecisions(0, []domain.Event{submitEvent("base", 2, 5)})

	// Head needs the full platform; the candidate fits in the free half.
	decisions := s.TakeDecisions(1, []domain.Event{
		submitEvent("head", 4, 5),
		submitEvent("bf", 2, 3),
	})
	execs := executions(decisions)
	if _, started := execs["head"]; started {
		t.Errorf("head must not start on a half-busy platform")
	}
	if !reflect.DeepEqual(execs["bf"], []int{2, 3}) {
		t.Errorf("bf resources = %v, want [2 3]", execs["bf"])
	}

	// Once everything drains, the head takes the whole platform.
	decisions = s.TakeDecisions(5, []domain.Event{
		completeEvent("base"),
		completeEvent("bf"),
	})
	if got := executions(decisions)["head"]; !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("head resources = %v, want [0 1 2 3]", got)
	}
}

func TestBestContiguousPrefersRun(t *testing.T) {
	s := newTestScheduler(t, PolicyBestContiguous)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})

	// Occupy {0} and {1}, then free {0} so the free set is {0, 2, 3}.
	s.TakeDecisions(0, []domain.Event{
		submitEvent("a", 1, 100),
		submitEvent("b", 1, 100),
	})
	decisions := s.TakeDecisions(1, []domain.Event{
		completeEvent("a"),
		submitEvent("head", 4, 10),
		submitEvent("bf", 2, 10),
	})
	execs := executions(decisions)
	if _, started := execs["head"]; started {
		t.Errorf("head must not start with 3 resources free")
	}
	// {2, 3} is the only run of length 2; {0, 2} would be the smallest ids.
	if !reflect.DeepEqual(execs["bf"], []int{2, 3}) {
		t.Errorf("bf resources = %v, want the contiguous [2 3], not the smallest ids", execs["bf"])
	}
}

func TestBestContiguousFallsBackToSmallestIds(t *testing.T) {
	s := newTestScheduler(t, PolicyBestContiguous)
	s.TakeDecisions(0, []domain.Event{beginEvent(4)})

	// Fill the platform one resource per job, then free {0} and {2}. The free
	// set {0, 2} has no run of length 2.
	s.TakeDecisions(0, []domain.Event{
		submitEvent("a", 1, 100), // {0}
		submitEvent("b", 1, 100), // {1}
		submitEvent("c", 1, 100), // {2}
		submitEvent("d", 1, 100), // {3}
	})
	decisions := s.TakeDecisions(1, []domain.Event{
		completeEvent("a"),
		completeEvent("c"),
		submitEvent("head", 3, 10),
		submitEvent("bf", 2, 10),
	})
	execs := executions(decisions)
	if !reflect.DeepEqual(execs["bf"], []int{0, 2}) {
		t.Errorf("bf resources = %v, want fallback [0 2]", execs["bf"])
	}
}

func TestDuplicateCompletionIsIgnored(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})
	s.TakeDecisions(0, []domain.Event{submitEvent("j1", 2, 5)})

	s.TakeDecisions(5, []domain.Event{completeEvent("j1"), completeEvent("j1")})
	decisions := s.TakeDecisions(6, []domain.Event{completeEvent("j1"), submitEvent("j2", 2, 5)})
	if got := executions(decisions)["j2"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("j2 resources = %v, want [0 1]", got)
	}
}

func TestCompletionOfUnknownJobIsIgnored(t *testing.T) {
	s := newTestScheduler(t, PolicyFcfs)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})
	decisions := s.TakeDecisions(1, []domain.Event{completeEvent("ghost")})
	if len(decisions) != 0 {
		t.Errorf("expected no decisions, got %v", decisions)
	}
}

func TestZeroWalltimeJobRunsUntilCompletion(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})

	decisions := s.TakeDecisions(0, []domain.Event{submitEvent("j1", 2, 0)})
	if got := executions(decisions)["j1"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("j1 resources = %v, want [0 1]", got)
	}

	// The snapshot tracker holds resources until the completion event, no
	// matter how long the job actually runs.
	decisions = s.TakeDecisions(50, []domain.Event{submitEvent("j2", 2, 0)})
	if len(executions(decisions)) != 0 {
		t.Errorf("j2 must wait for j1's completion, got %v", decisions)
	}
	decisions = s.TakeDecisions(60, []domain.Event{completeEvent("j1")})
	if got := executions(decisions)["j2"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("j2 resources = %v, want [0 1]", got)
	}
}

func TestConservativeMinimumReservation(t *testing.T) {
	s := newTestScheduler(t, PolicyConservative)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})

	// A job with no walltime gets the minimum one-slot reservation.
	decisions := s.TakeDecisions(0, []domain.Event{
		submitEvent("j1", 2, 0),
		submitEvent("j2", 2, 1),
	})
	execs := executions(decisions)
	if !reflect.DeepEqual(execs["j1"], []int{0, 1}) {
		t.Fatalf("j1 resources = %v, want [0 1]", execs["j1"])
	}
	if _, started := execs["j2"]; started {
		t.Errorf("j2 must not start in j1's reserved slot")
	}
}

func TestUnknownEventKindIgnored(t *testing.T) {
	s := newTestScheduler(t, PolicyEasy)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})
	decisions := s.TakeDecisions(1, []domain.Event{{Kind: domain.KindUnknown}})
	if len(decisions) != 0 {
		t.Errorf("expected no decisions, got %v", decisions)
	}
}

func TestFractionalTimeTruncates(t *testing.T) {
	s := newTestScheduler(t, PolicyConservative)
	s.TakeDecisions(0, []domain.Event{beginEvent(2)})
	decisions := s.TakeDecisions(3.7, []domain.Event{submitEvent("j1", 1, 2)})
	alloc := s.(*batchScheduler).registry.runningAllocations()
	if len(decisions) != 1 || len(alloc) != 1 {
		t.Fatalf("expected one running job, got %v / %v", decisions, alloc)
	}
	if alloc[0].StartTime != 3 {
		t.Errorf("start time = %d, want 3", alloc[0].StartTime)
	}
}

func TestUnrecognizedPolicy(t *testing.T) {
	if _, err := NewScheduler("sjf", nil, nil); err == nil {
		t.Errorf("expected error for unrecognized policy")
	}
}
