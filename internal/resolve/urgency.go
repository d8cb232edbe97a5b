package resolve

import (
	"strings"

	"github.com/clavisure/clavis/internal/model"
)

// Per-language urgency keyword tables. Absence of any keyword yields low.
var urgencyKeywords = map[model.Language]map[model.Urgency][]string{
	model.LanguageGerman: {
		model.UrgencyHigh:   {"dringend", "notfall", "sofort", "umgehend", "heute noch"},
		model.UrgencyMedium: {"bald", "schnell", "zeitnah", "diese woche"},
	},
	model.LanguageEnglish: {
		model.UrgencyHigh:   {"urgent", "emergency", "immediately", "asap", "right away"},
		model.UrgencyMedium: {"soon", "quickly", "this week", "promptly"},
	},
	model.LanguageFrench: {
		model.UrgencyHigh:   {"urgent", "urgence", "immédiatement", "immediatement", "tout de suite"},
		model.UrgencyMedium: {"bientôt", "bientot", "rapidement", "cette semaine"},
	},
	model.LanguageItalian: {
		model.UrgencyHigh:   {"urgente", "emergenza", "immediatamente", "subito"},
		model.UrgencyMedium: {"presto", "rapidamente", "questa settimana"},
	},
}

// DetectUrgency scans text for language-specific urgency keywords.
// High wins over medium when both appear.
func DetectUrgency(text string, lang model.Language) model.Urgency {
	lowered := strings.ToLower(text)

	table, ok := urgencyKeywords[model.NormalizeLanguage(string(lang))]
	if !ok {
		table = urgencyKeywords[model.LanguageGerman]
	}

	for _, kw := range table[model.UrgencyHigh] {
		if strings.Contains(lowered, kw) {
			return model.UrgencyHigh
		}
	}
	for _, kw := range table[model.UrgencyMedium] {
		if strings.Contains(lowered, kw) {
			return model.UrgencyMedium
		}
	}

	return model.UrgencyLow
}
