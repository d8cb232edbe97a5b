// Package detect implements the deterministic pattern-based intent detector.
package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clavisure/clavis/internal/model"
)

// Rule is one entry in the declarative intent rule table. Keywords are
// matched as case-insensitive substrings, Patterns as regular expressions.
// Rule order within a language is a deliberate policy: when two rules score
// the same number of matched terms, the first-declared rule wins.
type Rule struct {
	Name     string                `yaml:"name"`
	Category model.MessageCategory `yaml:"category"`
	Language model.Language        `yaml:"language"`
	Keywords []string              `yaml:"keywords"`
	Patterns []string              `yaml:"patterns"`
}

type compiledRule struct {
	Rule
	regexes []*regexp.Regexp
}

// saturationTerms is the number of distinct matched terms at which the
// confidence saturates at 1.0.
const saturationTerms = 3.0

// Matcher evaluates the rule table against message text. It is stateless
// after construction and safe for concurrent use.
type Matcher struct {
	byLanguage map[model.Language][]compiledRule
}

// NewMatcher compiles the given rules into a matcher. The table is loaded
// once at process start and never mutated afterwards.
func NewMatcher(rules []Rule) (*Matcher, error) {
	byLanguage := make(map[model.Language][]compiledRule)

	for _, r := range rules {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %q: unknown category %q", r.Name, r.Category)
		}
		if model.NormalizeLanguage(string(r.Language)) != r.Language {
			return nil, fmt.Errorf("rule %q: unsupported language %q", r.Name, r.Language)
		}

		compiled := compiledRule{Rule: r}
		for _, p := range r.Patterns {
			if !strings.HasPrefix(p, "(?i)") {
				p = "(?i)" + p
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rule %q: failed to compile pattern: %w", r.Name, err)
			}
			compiled.regexes = append(compiled.regexes, re)
		}

		byLanguage[r.Language] = append(byLanguage[r.Language], compiled)
	}

	return &Matcher{byLanguage: byLanguage}, nil
}

// Match classifies text into a message category. Malformed input is treated
// as an empty string; no match yields general_query with confidence 0.
// For any fixed (text, language) the result is identical on every call.
func (m *Matcher) Match(text string, lang model.Language) model.DetectionResult {
	lang = model.NormalizeLanguage(string(lang))

	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return noMatch()
	}

	rules, ok := m.byLanguage[lang]
	if !ok {
		rules = m.byLanguage[model.LanguageGerman]
	}

	var best *compiledRule
	bestHits := 0

	for i := range rules {
		hits := rules[i].countHits(lowered)
		// Strictly greater keeps the first-declared rule on ties.
		if hits > bestHits {
			bestHits = hits
			best = &rules[i]
		}
	}

	if best == nil {
		return noMatch()
	}

	confidence := float64(bestHits) / saturationTerms
	if confidence > 1.0 {
		confidence = 1.0
	}

	return model.DetectionResult{
		Category:   best.Category,
		Confidence: confidence,
		Source:     model.SourcePattern,
		Reasoning:  fmt.Sprintf("rule %q matched %d terms", best.Name, bestHits),
	}
}

// RuleCount returns the number of rules loaded for a language.
func (m *Matcher) RuleCount(lang model.Language) int {
	return len(m.byLanguage[model.NormalizeLanguage(string(lang))])
}

func (r *compiledRule) countHits(lowered string) int {
	hits := 0
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			hits++
		}
	}
	for _, re := range r.regexes {
		if re.MatchString(lowered) {
			hits++
		}
	}
	return hits
}

func noMatch() model.DetectionResult {
	return model.DetectionResult{
		Category:   model.CategoryGeneralQuery,
		Confidence: 0,
		Source:     model.SourcePattern,
		Reasoning:  "no rule matched",
	}
}
