// Package gate decides whether a pattern detection is trustworthy on its own
// or needs verification by the AI classifier.
package gate

import (
	"github.com/clavisure/clavis/internal/model"
)

// Decision is the gate's verdict on a pattern detection.
type Decision string

const (
	// DecisionAccept uses the pattern result without escalation.
	DecisionAccept Decision = "accept"
	// DecisionEscalate defers to the AI classifier.
	DecisionEscalate Decision = "escalate"
	// DecisionTentative accepts a mid-range result but marks it for one
	// extra turn of confirmation.
	DecisionTentative Decision = "tentative"
)

// Config holds the gate thresholds. The source system was still tuning
// these, so they are configuration rather than constants.
type Config struct {
	HighConfidence float64
	LowConfidence  float64
}

// DefaultConfig returns the canonical hybrid thresholds.
func DefaultConfig() Config {
	return Config{
		HighConfidence: 0.8,
		LowConfidence:  0.5,
	}
}

// Gate implements the three-way accept/escalate/tentative split that keeps
// the common case pattern-only while verifying at the boundaries.
type Gate struct {
	high float64
	low  float64
}

// New creates a gate, substituting defaults for unset thresholds.
func New(cfg Config) *Gate {
	def := DefaultConfig()
	if cfg.HighConfidence <= 0 {
		cfg.HighConfidence = def.HighConfidence
	}
	if cfg.LowConfidence <= 0 {
		cfg.LowConfidence = def.LowConfidence
	}
	return &Gate{high: cfg.HighConfidence, low: cfg.LowConfidence}
}

// Decide returns the gate's verdict for a pattern result given the session
// state. A detection that points away from the active flow is always
// escalated: a possible context switch must be confirmed by the costlier
// detector before the flow is suspended. A pending tentative category from
// the previous turn is likewise escalated unless re-confirmed.
func (g *Gate) Decide(result model.DetectionResult, state *model.ConversationState) Decision {
	if state != nil {
		if state.ActiveFlow != "" &&
			result.Category != state.ActiveFlow.StartCategory() &&
			result.Category != model.CategoryConfirmation {
			return DecisionEscalate
		}
		if state.TentativeCategory != "" && result.Category != state.TentativeCategory {
			return DecisionEscalate
		}
	}

	switch {
	case result.Confidence >= g.high:
		return DecisionAccept
	case result.Confidence < g.low:
		return DecisionEscalate
	default:
		return DecisionTentative
	}
}
