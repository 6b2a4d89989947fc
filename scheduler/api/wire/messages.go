// Package wire defines the protocol messages exchanged with the resource
// manager driving the scheduler: one EventMessage in, one DecisionMessage
// out, per decision cycle. The structs carry protobuf field tags and are
// encoded either as protobuf binary or as JSON, selected at initialization.
package wire

import (
	"github.com/golang/protobuf/proto"
)

// Event kinds carried on the wire. Kinds outside this set are ignored by the
// scheduler (forward compatibility), not treated as errors.
const (
	EventKindHandshake        = "HANDSHAKE"
	EventKindSimulationBegins = "SIMULATION_BEGINS"
	EventKindJobSubmitted     = "JOB_SUBMITTED"
	EventKindJobCompleted     = "JOB_COMPLETED"
)

// Decision kinds carried on the wire.
const (
	DecisionKindAcknowledgeHandshake = "ACKNOWLEDGE_HANDSHAKE"
	DecisionKindRejectJob            = "REJECT_JOB"
	DecisionKindExecuteJob           = "EXECUTE_JOB"
)

// EventMessage is the ordered batch of events for one decision cycle, stamped
// with the current simulation time.
type EventMessage struct {
	Now              float64  `protobuf:"fixed64,1,opt,name=now" json:"now,omitempty"`
	Events           []*Event `protobuf:"bytes,2,rep,name=events" json:"events,omitempty"`
	XXX_unrecognized []byte   `json:"-"`
}

func (m *EventMessage) Reset()         { *m = EventMessage{} }
func (m *EventMessage) String() string { return proto.CompactTextString(m) }
func (*EventMessage) ProtoMessage()    {}

func (m *EventMessage) GetNow() float64 {
	if m != nil {
		return m.Now
	}
	return 0
}

func (m *EventMessage) GetEvents() []*Event {
	if m != nil {
		return m.Events
	}
	return nil
}

// Event is a kind-tagged record; only the payload matching Kind is set.
type Event struct {
	Kind             string                 `protobuf:"bytes,1,opt,name=kind" json:"kind,omitempty"`
	Handshake        *HandshakeEvent        `protobuf:"bytes,2,opt,name=handshake" json:"handshake,omitempty"`
	SimulationBegins *SimulationBeginsEvent `protobuf:"bytes,3,opt,name=simulation_begins,json=simulationBegins" json:"simulation_begins,omitempty"`
	JobSubmitted     *JobSubmittedEvent     `protobuf:"bytes,4,opt,name=job_submitted,json=jobSubmitted" json:"job_submitted,omitempty"`
	JobCompleted     *JobCompletedEvent     `protobuf:"bytes,5,opt,name=job_completed,json=jobCompleted" json:"job_completed,omitempty"`
	XXX_unrecognized []byte                 `json:"-"`
}

func (m *Event) Reset()         { *m = Event{} }
func (m *Event) String() string { return proto.CompactTextString(m) }
func (*Event) ProtoMessage()    {}

func (m *Event) GetKind() string {
	if m != nil {
		return m.Kind
	}
	return ""
}

func (m *Event) GetHandshake() *HandshakeEvent {
	if m != nil {
		return m.Handshake
	}
	return nil
}

func (m *Event) GetSimulationBegins() *SimulationBeginsEvent {
	if m != nil {
		return m.SimulationBegins
	}
	return nil
}

func (m *Event) GetJobSubmitted() *JobSubmittedEvent {
	if m != nil {
		return m.JobSubmitted
	}
	return nil
}

func (m *Event) GetJobCompleted() *JobCompletedEvent {
	if m != nil {
		return m.JobCompleted
	}
	return nil
}

// HandshakeEvent opens a session; the scheduler acknowledges with its own
// name and protocol version.
type HandshakeEvent struct {
	Name             string `protobuf:"bytes,1,opt,name=name" json:"name,omitempty"`
	Version          string `protobuf:"bytes,2,opt,name=version" json:"version,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *HandshakeEvent) Reset()         { *m = HandshakeEvent{} }
func (m *HandshakeEvent) String() string { return proto.CompactTextString(m) }
func (*HandshakeEvent) ProtoMessage()    {}

func (m *HandshakeEvent) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

func (m *HandshakeEvent) GetVersion() string {
	if m != nil {
		return m.Version
	}
	return ""
}

// SimulationBeginsEvent fixes the platform size for the rest of the run.
type SimulationBeginsEvent struct {
	ResourceCount    int32  `protobuf:"varint,1,opt,name=resource_count,json=resourceCount" json:"resource_count,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *SimulationBeginsEvent) Reset()         { *m = SimulationBeginsEvent{} }
func (m *SimulationBeginsEvent) String() string { return proto.CompactTextString(m) }
func (*SimulationBeginsEvent) ProtoMessage()    {}

func (m *SimulationBeginsEvent) GetResourceCount() int32 {
	if m != nil {
		return m.ResourceCount
	}
	return 0
}

// JobSubmittedEvent announces a new job with its resource request and
// requested walltime in whole time units (0 = until completion).
type JobSubmittedEvent struct {
	JobId            string `protobuf:"bytes,1,opt,name=job_id,json=jobId" json:"job_id,omitempty"`
	ResourceRequest  int32  `protobuf:"varint,2,opt,name=resource_request,json=resourceRequest" json:"resource_request,omitempty"`
	Walltime         int32  `protobuf:"varint,3,opt,name=walltime" json:"walltime,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *JobSubmittedEvent) Reset()         { *m = JobSubmittedEvent{} }
func (m *JobSubmittedEvent) String() string { return proto.CompactTextString(m) }
func (*JobSubmittedEvent) ProtoMessage()    {}

func (m *JobSubmittedEvent) GetJobId() string {
	if m != nil {
		return m.JobId
	}
	return ""
}

func (m *JobSubmittedEvent) GetResourceRequest() int32 {
	if m != nil {
		return m.ResourceRequest
	}
	return 0
}

func (m *JobSubmittedEvent) GetWalltime() int32 {
	if m != nil {
		return m.Walltime
	}
	return 0
}

// JobCompletedEvent announces that a running job has finished.
type JobCompletedEvent struct {
	JobId            string `protobuf:"bytes,1,opt,name=job_id,json=jobId" json:"job_id,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *JobCompletedEvent) Reset()         { *m = JobCompletedEvent{} }
func (m *JobCompletedEvent) String() string { return proto.CompactTextString(m) }
func (*JobCompletedEvent) ProtoMessage()    {}

func (m *JobCompletedEvent) GetJobId() string {
	if m != nil {
		return m.JobId
	}
	return ""
}

// DecisionMessage is the ordered batch of decisions produced by one cycle.
type DecisionMessage struct {
	Now              float64     `protobuf:"fixed64,1,opt,name=now" json:"now,omitempty"`
	Decisions        []*Decision `protobuf:"bytes,2,rep,name=decisions" json:"decisions,omitempty"`
	XXX_unrecognized []byte      `json:"-"`
}

func (m *DecisionMessage) Reset()         { *m = DecisionMessage{} }
func (m *DecisionMessage) String() string { return proto.CompactTextString(m) }
func (*DecisionMessage) ProtoMessage()    {}

func (m *DecisionMessage) GetNow() float64 {
	if m != nil {
		return m.Now
	}
	return 0
}

func (m *DecisionMessage) GetDecisions() []*Decision {
	if m != nil {
		return m.Decisions
	}
	return nil
}

// Decision is a kind-tagged record; only the payload matching Kind is set.
type Decision struct {
	Kind                 string                        `protobuf:"bytes,1,opt,name=kind" json:"kind,omitempty"`
	AcknowledgeHandshake *AcknowledgeHandshakeDecision `protobuf:"bytes,2,opt,name=acknowledge_handshake,json=acknowledgeHandshake" json:"acknowledge_handshake,omitempty"`
	RejectJob            *RejectJobDecision            `protobuf:"bytes,3,opt,name=reject_job,json=rejectJob" json:"reject_job,omitempty"`
	ExecuteJob           *ExecuteJobDecision           `protobuf:"bytes,4,opt,name=execute_job,json=executeJob" json:"execute_job,omitempty"`
	XXX_unrecognized     []byte                        `json:"-"`
}

func (m *Decision) Reset()         { *m = Decision{} }
func (m *Decision) String() string { return proto.CompactTextString(m) }
func (*Decision) ProtoMessage()    {}

func (m *Decision) GetKind() string {
	if m != nil {
		return m.Kind
	}
	return ""
}

func (m *Decision) GetAcknowledgeHandshake() *AcknowledgeHandshakeDecision {
	if m != nil {
		return m.AcknowledgeHandshake
	}
	return nil
}

func (m *Decision) GetRejectJob() *RejectJobDecision {
	if m != nil {
		return m.RejectJob
	}
	return nil
}

func (m *Decision) GetExecuteJob() *ExecuteJobDecision {
	if m != nil {
		return m.ExecuteJob
	}
	return nil
}

type AcknowledgeHandshakeDecision struct {
	Name             string `protobuf:"bytes,1,opt,name=name" json:"name,omitempty"`
	Version          string `protobuf:"bytes,2,opt,name=version" json:"version,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *AcknowledgeHandshakeDecision) Reset()         { *m = AcknowledgeHandshakeDecision{} }
func (m *AcknowledgeHandshakeDecision) String() string { return proto.CompactTextString(m) }
func (*AcknowledgeHandshakeDecision) ProtoMessage()    {}

func (m *AcknowledgeHandshakeDecision) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

func (m *AcknowledgeHandshakeDecision) GetVersion() string {
	if m != nil {
		return m.Version
	}
	return ""
}

type RejectJobDecision struct {
	JobId            string `protobuf:"bytes,1,opt,name=job_id,json=jobId" json:"job_id,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *RejectJobDecision) Reset()         { *m = RejectJobDecision{} }
func (m *RejectJobDecision) String() string { return proto.CompactTextString(m) }
func (*RejectJobDecision) ProtoMessage()    {}

func (m *RejectJobDecision) GetJobId() string {
	if m != nil {
		return m.JobId
	}
	return ""
}

// ExecuteJobDecision starts a job on the listed resource ids (ascending).
type ExecuteJobDecision struct {
	JobId            string  `protobuf:"bytes,1,opt,name=job_id,json=jobId" json:"job_id,omitempty"`
	ResourceIds      []int32 `protobuf:"varint,2,rep,packed,name=resource_ids,json=resourceIds" json:"resource_ids,omitempty"`
	XXX_unrecognized []byte  `json:"-"`
}

func (m *ExecuteJobDecision) Reset()         { *m = ExecuteJobDecision{} }
func (m *ExecuteJobDecision) String() string { return proto.CompactTextString(m) }
func (*ExecuteJobDecision) ProtoMessage()    {}

func (m *ExecuteJobDecision) GetJobId() string {
	if m != nil {
		return m.JobId
	}
	return ""
}

func (m *ExecuteJobDecision) GetResourceIds() []int32 {
	if m != nil {
		return m.ResourceIds
	}
	return nil
}

func init() {
	proto.RegisterType((*EventMessage)(nil), "bsched.EventMessage")
	proto.RegisterType((*Event)(nil), "bsched.Event")
	proto.RegisterType((*HandshakeEvent)(nil), "bsched.HandshakeEvent")
	proto.RegisterType((*SimulationBeginsEvent)(nil), "bsched.SimulationBeginsEvent")
	proto.RegisterType((*JobSubmittedEvent)(nil), "bsched.JobSubmittedEvent")
	proto.RegisterType((*JobCompletedEvent)(nil), "bsched.JobCompletedEvent")
	proto.RegisterType((*DecisionMessage)(nil), "bsched.DecisionMessage")
	proto.RegisterType((*Decision)(nil), "bsched.Decision")
	proto.RegisterType((*AcknowledgeHandshakeDecision)(nil), "bsched.AcknowledgeHandshakeDecision")
	proto.RegisterType((*RejectJobDecision)(nil), "bsched.RejectJobDecision")
	proto.RegisterType((*ExecuteJobDecision)(nil), "bsched.ExecuteJobDecision")
}
