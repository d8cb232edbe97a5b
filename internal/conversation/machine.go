package conversation

import (
	"log/slog"
	"strings"

	"github.com/clavisure/clavis/internal/model"
)

// maxFinalizeAttempts bounds how often finalization is attempted before the
// flow is abandoned back to idle.
const maxFinalizeAttempts = 2

// topicHistoryLimit caps the diagnostic topic trail kept per session.
const topicHistoryLimit = 20

// Config holds conversation state machine settings.
type Config struct {
	// SwitchConfidence is the minimum resolved confidence for a differing
	// category to suspend the active flow.
	SwitchConfidence float64
}

// DefaultConfig returns the default machine settings.
func DefaultConfig() Config {
	return Config{SwitchConfidence: 0.8}
}

// Machine owns all ConversationState mutations. While a flow is active,
// input fills the current slot unless the resolver signals a topic switch;
// a switch suspends the flow into the single-level paused register instead
// of discarding collected slots, and returning to the suspended topic
// resumes it at the saved slot with the data intact.
type Machine struct {
	logger           *slog.Logger
	switchConfidence float64
}

// New creates a conversation state machine.
func New(cfg Config, logger *slog.Logger) *Machine {
	if cfg.SwitchConfidence <= 0 {
		cfg.SwitchConfidence = DefaultConfig().SwitchConfidence
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{switchConfidence: cfg.SwitchConfidence, logger: logger}
}

// Advance applies one turn to the session state. res carries the resolved
// classification for this turn, or nil when the message was not
// re-classified and is treated as the value for the current slot.
func (m *Machine) Advance(state *model.ConversationState, res *model.ResolvedClassification, text string) model.Directive {
	switch state.Phase {
	case model.PhaseFlowActive:
		if res != nil && m.isTopicSwitch(state, res) {
			m.recordTopic(state, res)
			return m.switchFlow(state, model.FlowForCategory(res.Category))
		}
		return m.fillSlot(state, text)
	default:
		if res == nil {
			// No classification and no active flow: nothing to act on.
			return model.Directive{Kind: model.DirectiveAnswer, Category: model.CategoryGeneralQuery}
		}
		m.recordTopic(state, res)
		if res.Category.StartsFlow() && !res.Tentative {
			return m.startOrResume(state, model.FlowForCategory(res.Category))
		}
		return model.Directive{Kind: model.DirectiveAnswer, Category: res.Category}
	}
}

// FinalizeSucceeded transitions a completed flow back to idle. A paused
// flow, if any, stays in the register so the user can return to it.
func (m *Machine) FinalizeSucceeded(state *model.ConversationState) model.Directive {
	flow := state.ActiveFlow
	m.resetActive(state)
	m.logger.Info("flow finalized",
		"session_id", state.SessionID,
		"flow", flow)
	return model.Directive{Kind: model.DirectiveFlowComplete, Flow: flow}
}

// FinalizeFailed records one failed finalization attempt. The flow stays in
// the complete-pending phase for a single retry, then is abandoned back to
// idle; the topic trail keeps the flow category for diagnostics only.
func (m *Machine) FinalizeFailed(state *model.ConversationState) model.Directive {
	state.FinalizeAttempts++
	if state.FinalizeAttempts < maxFinalizeAttempts {
		m.logger.Warn("flow finalization failed, keeping flow pending for retry",
			"session_id", state.SessionID,
			"flow", state.ActiveFlow,
			"attempts", state.FinalizeAttempts)
		return model.Directive{Kind: model.DirectiveFinalizeFailed, Flow: state.ActiveFlow}
	}

	flow := state.ActiveFlow
	m.resetActive(state)
	m.logger.Error("flow abandoned after finalization retry",
		"session_id", state.SessionID,
		"flow", flow)
	return model.Directive{Kind: model.DirectiveFlowAbandoned, Flow: flow}
}

// isTopicSwitch reports whether res interrupts the active flow: a
// high-confidence flow-starting category that differs from the active
// flow's starting category and is not a confirmation.
func (m *Machine) isTopicSwitch(state *model.ConversationState, res *model.ResolvedClassification) bool {
	if !res.Category.StartsFlow() || res.Tentative {
		return false
	}
	if res.Category == model.CategoryConfirmation {
		return false
	}
	if model.FlowForCategory(res.Category) == state.ActiveFlow {
		return false
	}
	return res.Confidence >= m.switchConfidence
}

// switchFlow suspends the active flow into the paused register and starts
// (or resumes) the target flow. Switching is symmetric: if the target is
// the flow currently in the register, the two swap places and the resumed
// flow continues at its saved slot.
func (m *Machine) switchFlow(state *model.ConversationState, target model.Flow) model.Directive {
	suspended := &model.PausedFlow{
		Flow:    state.ActiveFlow,
		Index:   state.SlotIndex,
		Slots:   state.CollectedSlots,
		Retries: state.SlotRetries,
	}

	resume := state.Paused != nil && state.Paused.Flow == target
	var restored *model.PausedFlow
	if resume {
		restored = state.Paused
	}

	if state.Paused != nil && !resume {
		// Single-level register: a third concurrent flow replaces the
		// oldest suspension.
		m.logger.Warn("paused flow dropped by new topic switch",
			"session_id", state.SessionID,
			"dropped_flow", state.Paused.Flow)
	}
	state.Paused = suspended

	m.logger.Info("topic switch",
		"session_id", state.SessionID,
		"suspended_flow", suspended.Flow,
		"target_flow", target,
		"resuming", resume)

	if resume {
		state.ActiveFlow = restored.Flow
		state.SlotIndex = restored.Index
		state.CollectedSlots = restored.Slots
		state.SlotRetries = restored.Retries
		state.Phase = model.PhaseFlowActive
		return model.Directive{
			Kind: model.DirectiveFlowResumed,
			Flow: target,
			Slot: m.currentSlot(state),
		}
	}

	state.ActiveFlow = target
	state.SlotIndex = 0
	state.CollectedSlots = make(map[model.SlotName]string)
	state.SlotRetries = make(map[model.SlotName]int)
	state.Phase = model.PhaseFlowActive
	return model.Directive{
		Kind: model.DirectivePromptSlot,
		Flow: target,
		Slot: m.currentSlot(state),
	}
}

// startOrResume begins a flow from idle, resuming from the paused register
// when the user returns to a suspended topic.
func (m *Machine) startOrResume(state *model.ConversationState, flow model.Flow) model.Directive {
	if state.Paused != nil && state.Paused.Flow == flow {
		paused := state.Paused
		state.Paused = nil
		state.ActiveFlow = paused.Flow
		state.SlotIndex = paused.Index
		state.CollectedSlots = paused.Slots
		state.SlotRetries = paused.Retries
		state.Phase = model.PhaseFlowActive
		m.logger.Info("resuming paused flow",
			"session_id", state.SessionID,
			"flow", flow,
			"slot_index", state.SlotIndex)
		return model.Directive{
			Kind: model.DirectiveFlowResumed,
			Flow: flow,
			Slot: m.currentSlot(state),
		}
	}

	state.ActiveFlow = flow
	state.SlotIndex = 0
	state.CollectedSlots = make(map[model.SlotName]string)
	state.SlotRetries = make(map[model.SlotName]int)
	state.FinalizeAttempts = 0
	state.Phase = model.PhaseFlowActive
	m.logger.Info("starting flow",
		"session_id", state.SessionID,
		"flow", flow)
	return model.Directive{
		Kind: model.DirectivePromptSlot,
		Flow: flow,
		Slot: m.currentSlot(state),
	}
}

// fillSlot validates the message as the value for the current slot. Invalid
// input re-prompts the same slot without advancing; the retry count per slot
// is tracked so the caller can degrade gracefully at its own cap.
func (m *Machine) fillSlot(state *model.ConversationState, text string) model.Directive {
	spec, ok := Spec(state.ActiveFlow)
	if !ok || state.SlotIndex >= len(spec.Slots) {
		// Unknown flow or index out of range: recover by resetting.
		m.logger.Error("invalid flow state, resetting to idle",
			"session_id", state.SessionID,
			"flow", state.ActiveFlow,
			"slot_index", state.SlotIndex)
		m.resetActive(state)
		return model.Directive{Kind: model.DirectiveAnswer, Category: model.CategoryGeneralQuery}
	}

	slot := spec.Slots[state.SlotIndex]
	value := strings.TrimSpace(text)

	if err := slot.Validate(value); err != nil {
		state.SlotRetries[slot.Name]++
		m.logger.Debug("slot validation failed",
			"session_id", state.SessionID,
			"slot", slot.Name,
			"retries", state.SlotRetries[slot.Name])
		return model.Directive{
			Kind:   model.DirectiveRepromptSlot,
			Flow:   state.ActiveFlow,
			Slot:   slot.Name,
			Reason: err.Error(),
		}
	}

	state.CollectedSlots[slot.Name] = value
	state.SlotIndex++

	if state.SlotIndex >= len(spec.Slots) {
		state.Phase = model.PhaseFlowComplete
		state.FinalizeAttempts = 0
		return model.Directive{Kind: model.DirectiveFlowComplete, Flow: state.ActiveFlow}
	}

	return model.Directive{
		Kind: model.DirectivePromptSlot,
		Flow: state.ActiveFlow,
		Slot: spec.Slots[state.SlotIndex].Name,
	}
}

func (m *Machine) currentSlot(state *model.ConversationState) model.SlotName {
	spec, ok := Spec(state.ActiveFlow)
	if !ok || state.SlotIndex >= len(spec.Slots) {
		return ""
	}
	return spec.Slots[state.SlotIndex].Name
}

// recordTopic appends the resolved category to the session's topic trail
// and maintains the tentative confirmation marker.
func (m *Machine) recordTopic(state *model.ConversationState, res *model.ResolvedClassification) {
	state.LastCategory = res.Category
	state.TopicHistory = append(state.TopicHistory, res.Category)
	if len(state.TopicHistory) > topicHistoryLimit {
		state.TopicHistory = state.TopicHistory[len(state.TopicHistory)-topicHistoryLimit:]
	}

	if res.Tentative {
		state.TentativeCategory = res.Category
	} else {
		state.TentativeCategory = ""
	}
}

func (m *Machine) resetActive(state *model.ConversationState) {
	state.Phase = model.PhaseIdle
	state.ActiveFlow = ""
	state.SlotIndex = 0
	state.CollectedSlots = make(map[model.SlotName]string)
	state.SlotRetries = make(map[model.SlotName]int)
	state.FinalizeAttempts = 0
}
