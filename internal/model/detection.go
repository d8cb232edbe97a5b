package model

// DetectionSource identifies which detector produced a result.
type DetectionSource string

const (
	// SourcePattern marks results from the deterministic pattern matcher.
	SourcePattern DetectionSource = "pattern"
	// SourceAI marks results from the external AI classifier.
	SourceAI DetectionSource = "ai"
)

// DetectionResult is the output of a single detector. Immutable once created.
type DetectionResult struct {
	Category   MessageCategory
	Source     DetectionSource
	Reasoning  string
	Confidence float64
}

// Resolution rule names recorded on a ResolvedClassification. They identify
// which resolution path produced the final category and are required for
// audit logging and tests.
const (
	// RuleDirectPattern: the gate accepted the pattern result without escalation.
	RuleDirectPattern = "direct-pattern"
	// RuleAIFallbackToPattern: the AI call was attempted but failed; the
	// pattern result was used as-is.
	RuleAIFallbackToPattern = "ai-fallback-to-pattern"
	// RuleAgreement: both detectors ran and agreed on the category.
	RuleAgreement = "agreement"
	// RuleEscalatedAI: both detectors ran, disagreed, and the AI result won.
	RuleEscalatedAI = "escalated-ai"
	// RuleConflictOverride: both detectors ran, disagreed, and the pattern
	// result was kept because the AI confidence fell below the margin.
	RuleConflictOverride = "conflict-override"
)

// ResolvedClassification is the authoritative output of the resolver.
type ResolvedClassification struct {
	Category    MessageCategory
	Urgency     Urgency
	AppliedRule string
	Confidence  float64
	// Tentative marks a mid-range pattern result accepted without AI
	// verification; the next turn confirms or revises it.
	Tentative bool
}

// RoutingDecision is the document routing engine's verdict for one document.
type RoutingDecision struct {
	FinalCategory  DocumentCategory
	TargetTable    string
	OverrideReason string
	Overridden     bool
}
