package resolve

import (
	"testing"

	"github.com/clavisure/clavis/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDetectUrgency(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang model.Language
		want model.Urgency
	}{
		{name: "german high", text: "Das ist ein Notfall", lang: model.LanguageGerman, want: model.UrgencyHigh},
		{name: "german medium", text: "Bitte zeitnah bearbeiten", lang: model.LanguageGerman, want: model.UrgencyMedium},
		{name: "german default low", text: "Eine Frage zur Police", lang: model.LanguageGerman, want: model.UrgencyLow},
		{name: "high wins over medium", text: "Bitte bald bearbeiten, es ist dringend", lang: model.LanguageGerman, want: model.UrgencyHigh},
		{name: "english high", text: "I need this ASAP", lang: model.LanguageEnglish, want: model.UrgencyHigh},
		{name: "french high", text: "C'est une urgence", lang: model.LanguageFrench, want: model.UrgencyHigh},
		{name: "italian medium", text: "Per favore rispondete presto", lang: model.LanguageItalian, want: model.UrgencyMedium},
		{name: "case insensitive", text: "DRINGEND bitte melden", lang: model.LanguageGerman, want: model.UrgencyHigh},
		{name: "unknown language uses german table", text: "sofort bitte", lang: "xx", want: model.UrgencyHigh},
		{name: "empty text", text: "", lang: model.LanguageGerman, want: model.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectUrgency(tt.text, tt.lang))
		})
	}
}
