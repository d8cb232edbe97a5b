// Package llm adapts external large-language-model providers into the
// engine's AI classification detector.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse is the fixed JSON shape the prompt contract
// instructs the model to return.
type ClassificationResponse struct {
	Category   string  `json:"category"`
	Urgency    string  `json:"urgency"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// Config holds configuration for the LLM client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}
