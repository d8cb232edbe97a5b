package model

import "time"

// Flow identifies a multi-turn slot-collection process.
type Flow string

const (
	// FlowQuote collects the data needed to compute an insurance quote.
	FlowQuote Flow = "quote"
	// FlowAppointment collects the data needed to book an appointment.
	FlowAppointment Flow = "appointment"
	// FlowDocumentUpload collects the data needed to hand off an upload.
	FlowDocumentUpload Flow = "document_upload"
)

// StartCategory returns the message category that starts this flow.
func (f Flow) StartCategory() MessageCategory {
	switch f {
	case FlowQuote:
		return CategoryInsuranceQuote
	case FlowAppointment:
		return CategoryAppointment
	case FlowDocumentUpload:
		return CategoryDocumentUpload
	}
	return CategoryGeneralQuery
}

// FlowForCategory maps a flow-starting category to its flow. Returns ""
// for categories that do not start a flow.
func FlowForCategory(c MessageCategory) Flow {
	switch c {
	case CategoryInsuranceQuote:
		return FlowQuote
	case CategoryAppointment:
		return FlowAppointment
	case CategoryDocumentUpload:
		return FlowDocumentUpload
	}
	return ""
}

// SlotName identifies a single piece of data a flow must collect.
type SlotName string

const (
	// SlotFullName is the customer's full name.
	SlotFullName SlotName = "name"
	// SlotEmail is the customer's email address.
	SlotEmail SlotName = "email"
	// SlotPhone is the customer's phone number.
	SlotPhone SlotName = "phone"
	// SlotInsuranceType is the kind of insurance being quoted.
	SlotInsuranceType SlotName = "insurance_type"
	// SlotCoverageDetails describes the requested coverage.
	SlotCoverageDetails SlotName = "coverage_details"
	// SlotPreferredDate is the requested appointment date.
	SlotPreferredDate SlotName = "preferred_date"
	// SlotPreferredTime is the requested appointment time.
	SlotPreferredTime SlotName = "preferred_time"
	// SlotDocumentType is the kind of document being uploaded.
	SlotDocumentType SlotName = "document_type"
	// SlotDocumentNote is a free-text note accompanying an upload.
	SlotDocumentNote SlotName = "document_note"
)

// Phase is the coarse state of a conversation.
type Phase string

const (
	// PhaseIdle means no flow is active.
	PhaseIdle Phase = "idle"
	// PhaseFlowActive means a flow is collecting slots.
	PhaseFlowActive Phase = "flow_active"
	// PhaseFlowComplete means all slots are filled and finalization is pending.
	PhaseFlowComplete Phase = "flow_complete"
)

// PausedFlow is the single-level register holding a suspended flow.
// Collected slots and retry counts survive the suspension intact.
type PausedFlow struct {
	Slots   map[SlotName]string `json:"slots"`
	Retries map[SlotName]int    `json:"retries"`
	Flow    Flow                `json:"flow"`
	Index   int                 `json:"index"`
}

// ConversationState is the per-session slot-filling state. It is owned
// exclusively by the conversation state machine; the session store only
// persists it.
type ConversationState struct {
	UpdatedAt         time.Time           `json:"updated_at"`
	CollectedSlots    map[SlotName]string `json:"collected_slots"`
	SlotRetries       map[SlotName]int    `json:"slot_retries"`
	Paused            *PausedFlow         `json:"paused,omitempty"`
	SessionID         string              `json:"session_id"`
	Phase             Phase               `json:"phase"`
	ActiveFlow        Flow                `json:"active_flow,omitempty"`
	LastCategory      MessageCategory     `json:"last_category,omitempty"`
	TentativeCategory MessageCategory     `json:"tentative_category,omitempty"`
	TopicHistory      []MessageCategory   `json:"topic_history"`
	SlotIndex         int                 `json:"slot_index"`
	FinalizeAttempts  int                 `json:"finalize_attempts"`
	Version           int64               `json:"version"`
}

// NewConversationState creates the state for a session's first message.
func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID:      sessionID,
		Phase:          PhaseIdle,
		CollectedSlots: make(map[SlotName]string),
		SlotRetries:    make(map[SlotName]int),
		UpdatedAt:      time.Now().UTC(),
	}
}

// Clone returns a deep copy of the state.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	out.CollectedSlots = cloneSlots(s.CollectedSlots)
	out.SlotRetries = cloneRetries(s.SlotRetries)
	out.TopicHistory = append([]MessageCategory(nil), s.TopicHistory...)
	if s.Paused != nil {
		paused := *s.Paused
		paused.Slots = cloneSlots(s.Paused.Slots)
		paused.Retries = cloneRetries(s.Paused.Retries)
		out.Paused = &paused
	}
	return &out
}

func cloneSlots(in map[SlotName]string) map[SlotName]string {
	out := make(map[SlotName]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneRetries(in map[SlotName]int) map[SlotName]int {
	out := make(map[SlotName]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// DirectiveKind names the abstract reply instruction the transport layer
// renders into user-facing prose. The core never formats final text.
type DirectiveKind string

const (
	// DirectivePromptSlot asks for the current slot of the active flow.
	DirectivePromptSlot DirectiveKind = "prompt_slot"
	// DirectiveRepromptSlot re-asks the same slot after invalid input.
	DirectiveRepromptSlot DirectiveKind = "reprompt_slot"
	// DirectiveFlowResumed prompts for the next pending slot of a resumed flow.
	DirectiveFlowResumed DirectiveKind = "flow_resumed"
	// DirectiveFlowComplete signals that finalization succeeded.
	DirectiveFlowComplete DirectiveKind = "flow_complete"
	// DirectiveFinalizeFailed signals a recoverable finalization failure.
	DirectiveFinalizeFailed DirectiveKind = "finalize_failed"
	// DirectiveFlowAbandoned signals the flow was abandoned after retry.
	DirectiveFlowAbandoned DirectiveKind = "flow_abandoned"
	// DirectiveAnswer hands a non-flow category to the transport layer.
	DirectiveAnswer DirectiveKind = "answer"
)

// Directive is the abstract instruction returned by the conversation path.
type Directive struct {
	Kind     DirectiveKind
	Flow     Flow
	Slot     SlotName
	Category MessageCategory
	// Reason carries the validation failure for reprompts.
	Reason string
}
