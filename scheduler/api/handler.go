// Package api exposes the scheduler as a request/response handler: each call
// carries one encoded event batch and returns one encoded decision batch.
// The handler owns the session's encoding, chosen once at initialization.
package api

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	cerrors "github.com/hpcsim/bsched/common/errors"
	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/api/wire"
	"github.com/hpcsim/bsched/scheduler/domain"
	"github.com/hpcsim/bsched/scheduler/server"
)

// Handler decodes event batches, drives the scheduler, and encodes the
// resulting decisions. Calls to Decide must be serialized by the caller,
// matching the scheduler's single-actor model.
type Handler struct {
	scheduler server.Scheduler
	serde     wire.Serializer
	stat      stats.StatsReceiver
}

// NewHandler builds a handler for the named policy and format flags.
// Unrecognized policies and invalid flags are configuration errors.
func NewHandler(policyName string, flags uint32, stat stats.StatsReceiver, listener server.Listener) (*Handler, error) {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	serde, err := wire.NewSerializer(flags)
	if err != nil {
		return nil, cerrors.NewError(err, cerrors.InvalidConfigExitCode)
	}
	scheduler, err := server.NewScheduler(policyName, stat, listener)
	if err != nil {
		return nil, cerrors.NewError(err, cerrors.InvalidConfigExitCode)
	}
	return &Handler{scheduler: scheduler, serde: serde, stat: stat}, nil
}

// Decide runs one decision cycle: raw is one encoded EventMessage, the result
// is one encoded DecisionMessage stamped with the same time.
func (h *Handler) Decide(raw []byte) ([]byte, error) {
	defer h.stat.Latency(stats.SchedDecideLatency_ms).Time().Stop()

	eventMsg := &wire.EventMessage{}
	if err := h.serde.Deserialize(raw, eventMsg); err != nil {
		return nil, cerrors.NewError(errors.Wrap(err, "decoding event message"), cerrors.DeserializeFailureExitCode)
	}

	events := make([]domain.Event, 0, len(eventMsg.GetEvents()))
	for _, we := range eventMsg.GetEvents() {
		events = append(events, toDomainEvent(we))
	}

	decisions := h.scheduler.TakeDecisions(eventMsg.GetNow(), events)

	decisionMsg := &wire.DecisionMessage{Now: eventMsg.GetNow()}
	for _, d := range decisions {
		decisionMsg.Decisions = append(decisionMsg.Decisions, toWireDecision(d))
	}

	data, err := h.serde.Serialize(decisionMsg)
	if err != nil {
		return nil, cerrors.NewError(errors.Wrap(err, "encoding decision message"), cerrors.SerializeFailureExitCode)
	}
	return data, nil
}

// Close logs end-of-session state. The scheduler holds no external resources.
func (h *Handler) Close() error {
	log.WithFields(log.Fields{
		"policy":       h.scheduler.PolicyName(),
		"platformSize": h.scheduler.PlatformSize(),
	}).Info("Handler closed")
	return nil
}

func toDomainEvent(we *wire.Event) domain.Event {
	switch we.GetKind() {
	case wire.EventKindHandshake:
		return domain.Event{Kind: domain.KindHandshake}
	case wire.EventKindSimulationBegins:
		return domain.Event{
			Kind:         domain.KindSimulationBegins,
			PlatformSize: int(we.GetSimulationBegins().GetResourceCount()),
		}
	case wire.EventKindJobSubmitted:
		sub := we.GetJobSubmitted()
		return domain.Event{
			Kind: domain.KindJobSubmitted,
			Job: domain.Job{
				ID:           sub.GetJobId(),
				NumResources: int(sub.GetResourceRequest()),
				Walltime:     int(sub.GetWalltime()),
			},
		}
	case wire.EventKindJobCompleted:
		return domain.Event{
			Kind:  domain.KindJobCompleted,
			JobID: we.GetJobCompleted().GetJobId(),
		}
	default:
		return domain.Event{Kind: domain.KindUnknown}
	}
}

func toWireDecision(d domain.Decision) *wire.Decision {
	switch d.Kind {
	case domain.DecisionAcknowledgeHandshake:
		return &wire.Decision{
			Kind: wire.DecisionKindAcknowledgeHandshake,
			AcknowledgeHandshake: &wire.AcknowledgeHandshakeDecision{
				Name:    d.Name,
				Version: d.Version,
			},
		}
	case domain.DecisionRejectJob:
		return &wire.Decision{
			Kind:      wire.DecisionKindRejectJob,
			RejectJob: &wire.RejectJobDecision{JobId: d.JobID},
		}
	case domain.DecisionExecuteJob:
		ids := make([]int32, 0, len(d.Resources))
		for _, id := range d.Resources {
			ids = append(ids, int32(id))
		}
		return &wire.Decision{
			Kind:       wire.DecisionKindExecuteJob,
			ExecuteJob: &wire.ExecuteJobDecision{JobId: d.JobID, ResourceIds: ids},
		}
	default:
		return &wire.Decision{}
	}
}
