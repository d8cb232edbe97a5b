// Package resolve merges the pattern and AI detector outputs into the
// authoritative classification.
package resolve

import (
	"github.com/clavisure/clavis/internal/model"
)

// Config holds the resolver's conflict margin.
type Config struct {
	// ConflictMargin is how far the AI confidence may trail the pattern
	// confidence before the pattern result is kept on disagreement.
	ConflictMargin float64
}

// DefaultConfig returns the canonical margin.
func DefaultConfig() Config {
	return Config{ConflictMargin: 0.2}
}

// Resolver applies the priority-ordered resolution rules. The asymmetric
// margin prevents a low-confidence AI call from overriding a strong
// deterministic match while still letting AI correct genuinely wrong
// pattern matches.
type Resolver struct {
	margin float64
}

// New creates a resolver, substituting the default margin if unset.
func New(cfg Config) *Resolver {
	if cfg.ConflictMargin <= 0 {
		cfg.ConflictMargin = DefaultConfig().ConflictMargin
	}
	return &Resolver{margin: cfg.ConflictMargin}
}

// Resolve produces the final classification. escalated records whether the
// AI call was attempted, so a nil aiResult maps to the correct rule name:
// direct-pattern when the gate accepted, ai-fallback-to-pattern when the AI
// call failed or timed out. Urgency is derived independently from the
// urgency keyword table over the same input text.
func (r *Resolver) Resolve(patternResult model.DetectionResult, aiResult *model.DetectionResult, escalated bool, text string, lang model.Language) model.ResolvedClassification {
	urgency := DetectUrgency(text, lang)

	if aiResult == nil {
		rule := model.RuleDirectPattern
		if escalated {
			rule = model.RuleAIFallbackToPattern
		}
		return model.ResolvedClassification{
			Category:    patternResult.Category,
			Confidence:  patternResult.Confidence,
			Urgency:     urgency,
			AppliedRule: rule,
		}
	}

	if aiResult.Category == patternResult.Category {
		confidence := patternResult.Confidence
		if aiResult.Confidence > confidence {
			confidence = aiResult.Confidence
		}
		return model.ResolvedClassification{
			Category:    patternResult.Category,
			Confidence:  confidence,
			Urgency:     urgency,
			AppliedRule: model.RuleAgreement,
		}
	}

	if aiResult.Confidence < patternResult.Confidence-r.margin {
		return model.ResolvedClassification{
			Category:    patternResult.Category,
			Confidence:  patternResult.Confidence,
			Urgency:     urgency,
			AppliedRule: model.RuleConflictOverride,
		}
	}

	return model.ResolvedClassification{
		Category:    aiResult.Category,
		Confidence:  aiResult.Confidence,
		Urgency:     urgency,
		AppliedRule: model.RuleEscalatedAI,
	}
}
