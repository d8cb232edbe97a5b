package gate

import (
	"testing"

	"github.com/clavisure/clavis/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGateThresholds(t *testing.T) {
	g := New(DefaultConfig())

	tests := []struct {
		name       string
		want       Decision
		confidence float64
	}{
		{name: "high confidence accepts", confidence: 0.8, want: DecisionAccept},
		{name: "above high accepts", confidence: 0.95, want: DecisionAccept},
		{name: "just below high is tentative", confidence: 0.79, want: DecisionTentative},
		{name: "low boundary is tentative", confidence: 0.5, want: DecisionTentative},
		{name: "below low escalates", confidence: 0.49, want: DecisionEscalate},
		{name: "zero confidence escalates", confidence: 0, want: DecisionEscalate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.DetectionResult{
				Category:   model.CategoryFAQ,
				Confidence: tt.confidence,
				Source:     model.SourcePattern,
			}
			assert.Equal(t, tt.want, g.Decide(result, nil))
		})
	}
}

func TestGateEscalatesOnPossibleContextSwitch(t *testing.T) {
	g := New(DefaultConfig())

	state := model.NewConversationState("s1")
	state.Phase = model.PhaseFlowActive
	state.ActiveFlow = model.FlowQuote

	// A confident detection pointing away from the active flow still
	// escalates; the switch must be confirmed.
	result := model.DetectionResult{
		Category:   model.CategoryAppointment,
		Confidence: 0.95,
		Source:     model.SourcePattern,
	}
	assert.Equal(t, DecisionEscalate, g.Decide(result, state))

	// The same category as the active flow does not escalate.
	result.Category = model.CategoryInsuranceQuote
	assert.Equal(t, DecisionAccept, g.Decide(result, state))

	// Confirmations never count as a switch.
	result.Category = model.CategoryConfirmation
	assert.Equal(t, DecisionAccept, g.Decide(result, state))
}

func TestGateEscalatesUnconfirmedTentative(t *testing.T) {
	g := New(DefaultConfig())

	state := model.NewConversationState("s1")
	state.TentativeCategory = model.CategoryFAQ

	// Next turn resolves to a different category: escalate regardless of
	// confidence.
	differing := model.DetectionResult{
		Category:   model.CategoryClaim,
		Confidence: 0.9,
		Source:     model.SourcePattern,
	}
	assert.Equal(t, DecisionEscalate, g.Decide(differing, state))

	// Re-confirming the tentative category goes through the normal split.
	confirming := model.DetectionResult{
		Category:   model.CategoryFAQ,
		Confidence: 0.9,
		Source:     model.SourcePattern,
	}
	assert.Equal(t, DecisionAccept, g.Decide(confirming, state))
}

func TestGateDefaultSubstitution(t *testing.T) {
	g := New(Config{})

	result := model.DetectionResult{Category: model.CategoryFAQ, Confidence: 0.85}
	assert.Equal(t, DecisionAccept, g.Decide(result, nil))

	result.Confidence = 0.3
	assert.Equal(t, DecisionEscalate, g.Decide(result, nil))
}
