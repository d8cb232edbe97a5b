package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
		want    ClassificationResponse
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"category": "insurance_quote", "confidence": 0.85, "urgency": "low", "reasoning": "asks for a quote"}`,
			want: ClassificationResponse{
				Category:   "insurance_quote",
				Confidence: 0.85,
				Urgency:    "low",
				Reasoning:  "asks for a quote",
			},
		},
		{
			name: "markdown fenced json",
			content: "```json\n" +
				`{"category": "claim", "confidence": 0.9}` +
				"\n```",
			want: ClassificationResponse{Category: "claim", Confidence: 0.9},
		},
		{
			name: "fence without language tag",
			content: "```\n" +
				`{"category": "faq", "confidence": 0.7}` +
				"\n```",
			want: ClassificationResponse{Category: "faq", Confidence: 0.7},
		},
		{
			name:    "confidence clamped high",
			content: `{"category": "faq", "confidence": 1.4}`,
			want:    ClassificationResponse{Category: "faq", Confidence: 1},
		},
		{
			name:    "confidence clamped low",
			content: `{"category": "faq", "confidence": -0.2}`,
			want:    ClassificationResponse{Category: "faq", Confidence: 0},
		},
		{
			name:    "missing category",
			content: `{"confidence": 0.9}`,
			wantErr: true,
			errMsg:  "no category",
		},
		{
			name:    "not json",
			content: "the message is about a quote",
			wantErr: true,
			errMsg:  "failed to parse",
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
			errMsg:  "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClassification(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("  {\"a\":1}  "))
}
