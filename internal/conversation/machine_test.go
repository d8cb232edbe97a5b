package conversation

import (
	"testing"

	"github.com/clavisure/clavis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(cat model.MessageCategory, conf float64) *model.ResolvedClassification {
	return &model.ResolvedClassification{Category: cat, Confidence: conf}
}

func TestMachineStartsFlowFromIdle(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	d := m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Ich möchte eine Offerte")

	assert.Equal(t, model.DirectivePromptSlot, d.Kind)
	assert.Equal(t, model.FlowQuote, d.Flow)
	assert.Equal(t, model.SlotFullName, d.Slot)
	assert.Equal(t, model.PhaseFlowActive, state.Phase)
	assert.Equal(t, model.FlowQuote, state.ActiveFlow)
}

func TestMachineNonFlowCategoryAnswers(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	d := m.Advance(state, resolved(model.CategoryFAQ, 0.9), "Wie funktioniert der Export?")

	assert.Equal(t, model.DirectiveAnswer, d.Kind)
	assert.Equal(t, model.CategoryFAQ, d.Category)
	assert.Equal(t, model.PhaseIdle, state.Phase)
}

func TestMachineTentativeDoesNotStartFlow(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	res := resolved(model.CategoryInsuranceQuote, 0.6)
	res.Tentative = true
	d := m.Advance(state, res, "vielleicht eine offerte")

	assert.Equal(t, model.DirectiveAnswer, d.Kind)
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, model.CategoryInsuranceQuote, state.TentativeCategory)
}

func TestMachineNilClassificationFromIdle(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	d := m.Advance(state, nil, "hmm")

	assert.Equal(t, model.DirectiveAnswer, d.Kind)
	assert.Equal(t, model.CategoryGeneralQuery, d.Category)
}

func TestMachineFillsSlotsInOrder(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	m.Advance(state, resolved(model.CategoryAppointment, 0.9), "Termin bitte")

	d := m.Advance(state, nil, "Anna Keller")
	assert.Equal(t, model.DirectivePromptSlot, d.Kind)
	assert.Equal(t, model.SlotEmail, d.Slot)

	d = m.Advance(state, nil, "anna@example.ch")
	assert.Equal(t, model.SlotPreferredDate, d.Slot)

	d = m.Advance(state, nil, "am 12. März")
	assert.Equal(t, model.SlotPreferredTime, d.Slot)

	d = m.Advance(state, nil, "14 Uhr")
	assert.Equal(t, model.DirectiveFlowComplete, d.Kind)
	assert.Equal(t, model.PhaseFlowComplete, state.Phase)

	assert.Equal(t, "Anna Keller", state.CollectedSlots[model.SlotFullName])
	assert.Equal(t, "anna@example.ch", state.CollectedSlots[model.SlotEmail])
}

func TestMachineRepromptsInvalidInput(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Offerte bitte")
	m.Advance(state, nil, "Max Muster")

	// Invalid email twice; the slot does not advance and retries accumulate.
	d := m.Advance(state, nil, "not-an-email")
	assert.Equal(t, model.DirectiveRepromptSlot, d.Kind)
	assert.Equal(t, model.SlotEmail, d.Slot)
	assert.NotEmpty(t, d.Reason)
	assert.Equal(t, 1, state.SlotRetries[model.SlotEmail])

	d = m.Advance(state, nil, "still wrong")
	assert.Equal(t, model.DirectiveRepromptSlot, d.Kind)
	assert.Equal(t, 2, state.SlotRetries[model.SlotEmail])

	d = m.Advance(state, nil, "max@example.ch")
	assert.Equal(t, model.DirectivePromptSlot, d.Kind)
	assert.Equal(t, model.SlotPhone, d.Slot)
}

func TestMachineTopicSwitchPreservesSlots(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	// Quote flow: fill name and email, phone is pending.
	m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Offerte bitte")
	m.Advance(state, nil, "Max Muster")
	m.Advance(state, nil, "max@example.ch")

	// Switch to the appointment flow mid-collection.
	d := m.Advance(state, resolved(model.CategoryAppointment, 0.9), "Eigentlich lieber ein Termin")
	assert.Equal(t, model.DirectivePromptSlot, d.Kind)
	assert.Equal(t, model.FlowAppointment, d.Flow)
	assert.Equal(t, model.SlotFullName, d.Slot)

	require.NotNil(t, state.Paused)
	assert.Equal(t, model.FlowQuote, state.Paused.Flow)
	assert.Equal(t, "Max Muster", state.Paused.Slots[model.SlotFullName])

	// Fill one appointment slot, then switch back: symmetric swap.
	m.Advance(state, nil, "Max Muster")
	d = m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Doch zuerst die Offerte")

	assert.Equal(t, model.DirectiveFlowResumed, d.Kind)
	assert.Equal(t, model.FlowQuote, d.Flow)
	assert.Equal(t, model.SlotPhone, d.Slot, "resumes at the first unfilled slot")

	assert.Equal(t, "Max Muster", state.CollectedSlots[model.SlotFullName])
	assert.Equal(t, "max@example.ch", state.CollectedSlots[model.SlotEmail])

	// The appointment flow is now the paused one, with its slot intact.
	require.NotNil(t, state.Paused)
	assert.Equal(t, model.FlowAppointment, state.Paused.Flow)
	assert.Equal(t, "Max Muster", state.Paused.Slots[model.SlotFullName])
}

func TestMachineLowConfidenceSwitchFillsSlotInstead(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Offerte bitte")

	// Below the switch threshold: the message fills the current slot.
	d := m.Advance(state, resolved(model.CategoryAppointment, 0.5), "Termin Muster")
	assert.Equal(t, model.DirectivePromptSlot, d.Kind)
	assert.Equal(t, model.FlowQuote, d.Flow)
	assert.Equal(t, "Termin Muster", state.CollectedSlots[model.SlotFullName])
}

func TestMachineThirdFlowDropsPausedOne(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Offerte")
	m.Advance(state, nil, "Max Muster")
	m.Advance(state, resolved(model.CategoryAppointment, 0.9), "Termin")
	m.Advance(state, resolved(model.CategoryDocumentUpload, 0.9), "Dokument hochladen")

	// Single-level register: the quote flow is gone, the appointment flow
	// is the suspended one.
	require.NotNil(t, state.Paused)
	assert.Equal(t, model.FlowAppointment, state.Paused.Flow)
	assert.Equal(t, model.FlowDocumentUpload, state.ActiveFlow)
}

func TestMachineResumesPausedFlowFromIdle(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")
	state.Paused = &model.PausedFlow{
		Flow:    model.FlowQuote,
		Index:   2,
		Slots:   map[model.SlotName]string{model.SlotFullName: "Max", model.SlotEmail: "max@example.ch"},
		Retries: map[model.SlotName]int{},
	}

	d := m.Advance(state, resolved(model.CategoryInsuranceQuote, 0.9), "Zurück zur Offerte")

	assert.Equal(t, model.DirectiveFlowResumed, d.Kind)
	assert.Equal(t, model.SlotPhone, d.Slot)
	assert.Nil(t, state.Paused)
	assert.Equal(t, "Max", state.CollectedSlots[model.SlotFullName])
}

func TestMachineFinalizeLifecycle(t *testing.T) {
	m := New(DefaultConfig(), nil)

	t.Run("success resets to idle", func(t *testing.T) {
		state := model.NewConversationState("s1")
		state.Phase = model.PhaseFlowComplete
		state.ActiveFlow = model.FlowQuote

		d := m.FinalizeSucceeded(state)
		assert.Equal(t, model.DirectiveFlowComplete, d.Kind)
		assert.Equal(t, model.FlowQuote, d.Flow)
		assert.Equal(t, model.PhaseIdle, state.Phase)
		assert.Empty(t, state.ActiveFlow)
	})

	t.Run("first failure keeps flow pending", func(t *testing.T) {
		state := model.NewConversationState("s1")
		state.Phase = model.PhaseFlowComplete
		state.ActiveFlow = model.FlowQuote

		d := m.FinalizeFailed(state)
		assert.Equal(t, model.DirectiveFinalizeFailed, d.Kind)
		assert.Equal(t, model.PhaseFlowComplete, state.Phase)
		assert.Equal(t, 1, state.FinalizeAttempts)
	})

	t.Run("second failure abandons the flow", func(t *testing.T) {
		state := model.NewConversationState("s1")
		state.Phase = model.PhaseFlowComplete
		state.ActiveFlow = model.FlowQuote
		state.FinalizeAttempts = 1

		d := m.FinalizeFailed(state)
		assert.Equal(t, model.DirectiveFlowAbandoned, d.Kind)
		assert.Equal(t, model.FlowQuote, d.Flow)
		assert.Equal(t, model.PhaseIdle, state.Phase)
		assert.Empty(t, state.ActiveFlow)
	})
}

func TestMachineRecordsTopicHistory(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	m.Advance(state, resolved(model.CategoryFAQ, 0.9), "Frage")
	m.Advance(state, resolved(model.CategoryClaim, 0.9), "Schadenfall")

	assert.Equal(t, []model.MessageCategory{model.CategoryFAQ, model.CategoryClaim}, state.TopicHistory)
	assert.Equal(t, model.CategoryClaim, state.LastCategory)
}

func TestMachineTopicHistoryBounded(t *testing.T) {
	m := New(DefaultConfig(), nil)
	state := model.NewConversationState("s1")

	for i := 0; i < 30; i++ {
		m.Advance(state, resolved(model.CategoryFAQ, 0.9), "Frage")
	}
	assert.Len(t, state.TopicHistory, 20)
}
