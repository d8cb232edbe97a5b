package routing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/clavisure/clavis/internal/model"
)

// Engine re-examines extracted text and the classification summary against
// the target rules and corrects the initial document label.
type Engine struct {
	logger *slog.Logger
	rules  []TargetRule
}

// New creates a routing engine; nil rules selects the built-in set.
func New(rules []TargetRule, logger *slog.Logger) *Engine {
	if rules == nil {
		rules = DefaultTargetRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rules: rules, logger: logger}
}

// Route decides the final storage category for a document. The override
// invariant holds by construction: Overridden is true only when an inclusion
// clause matched and neither an exclusion term nor an excluded initial label
// was present, and a document whose initial label already matches a target is
// never overridden to it.
func (e *Engine) Route(initialCategory model.DocumentCategory, extractedText, summary string) model.RoutingDecision {
	if !initialCategory.Valid() {
		initialCategory = model.DocMiscellaneous
	}

	text := strings.ToLower(extractedText)
	summaryLower := strings.ToLower(summary)

	for _, rule := range e.rules {
		if rule.Category == initialCategory {
			continue
		}

		if rule.excludesLabel(initialCategory) {
			e.logger.Debug("override vetoed by initial label",
				"target", rule.Category,
				"initial_category", initialCategory)
			continue
		}

		if term, excluded := rule.excludedBy(text, summaryLower); excluded {
			e.logger.Debug("override vetoed by exclusion term",
				"target", rule.Category,
				"term", term)
			continue
		}

		if reason, ok := rule.includedBy(text, summaryLower); ok {
			e.logger.Info("document rerouted",
				"initial_category", initialCategory,
				"final_category", rule.Category,
				"reason", reason)
			return model.RoutingDecision{
				FinalCategory:  rule.Category,
				TargetTable:    rule.Table,
				Overridden:     true,
				OverrideReason: reason,
			}
		}
	}

	return model.RoutingDecision{
		FinalCategory: initialCategory,
		TargetTable:   TableFor(initialCategory),
		Overridden:    false,
	}
}

// excludesLabel reports whether the initial label itself vetoes the rule.
func (r *TargetRule) excludesLabel(c model.DocumentCategory) bool {
	for _, label := range r.excludedLabels {
		if label == c {
			return true
		}
	}
	return false
}

// excludedBy scans text and summary for any exclusion term.
func (r *TargetRule) excludedBy(text, summary string) (string, bool) {
	for _, term := range r.exclusion {
		if strings.Contains(text, term) || strings.Contains(summary, term) {
			return term, true
		}
	}
	return "", false
}

// includedBy evaluates the inclusion clauses in order and reports the first
// match.
func (r *TargetRule) includedBy(text, summary string) (string, bool) {
	for _, c := range r.inclusion {
		input := text
		if c.scope == scopeSummary {
			input = summary
		}

		if len(c.anyOf) > 0 {
			for _, term := range c.anyOf {
				if strings.Contains(input, term) {
					return fmt.Sprintf("matched %q", term), true
				}
			}
		}

		if len(c.coOccur) > 0 && matchesAllGroups(input, c.coOccur) {
			return fmt.Sprintf("co-occurrence of %d term groups", len(c.coOccur)), true
		}
	}
	return "", false
}

// matchesAllGroups reports whether every group contributes at least one term.
func matchesAllGroups(input string, groups [][]string) bool {
	for _, group := range groups {
		hit := false
		for _, term := range group {
			if strings.Contains(input, term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
