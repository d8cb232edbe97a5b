package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clavisure/clavis/internal/model"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 5 * time.Second

// Adapter invokes the external classifier with a fixed prompt contract and a
// hard timeout. Any failure yields a nil result rather than an error: a
// timeout is an expected outcome, the resolver falls back to the pattern
// result and the turn completes. The adapter never retries.
type Adapter struct {
	client  Client
	logger  *slog.Logger
	timeout time.Duration
}

// NewAdapter wraps an LLM client into the engine's AI detector.
func NewAdapter(client Client, timeout time.Duration, logger *slog.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{client: client, timeout: timeout, logger: logger}
}

// Classify runs one bounded classification call. Returns nil on timeout,
// malformed output, network failure, or a category outside the fixed set.
func (a *Adapter) Classify(ctx context.Context, text string, history []model.MessageCategory) *model.DetectionResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.client.Classify(ctx, buildPrompt(text, history))
	if err != nil {
		a.logger.Warn("AI classification failed, falling back to pattern result",
			"error", err,
			"elapsed", time.Since(start))
		return nil
	}

	category := model.MessageCategory(strings.ToLower(strings.TrimSpace(resp.Category)))
	if !category.Valid() {
		a.logger.Warn("AI returned category outside the fixed set",
			"category", resp.Category)
		return nil
	}

	a.logger.Debug("AI classification succeeded",
		"category", category,
		"confidence", resp.Confidence,
		"elapsed", time.Since(start))

	return &model.DetectionResult{
		Category:   category,
		Confidence: resp.Confidence,
		Source:     model.SourceAI,
		Reasoning:  resp.Reasoning,
	}
}

// buildPrompt creates the classification prompt. The category list is the
// closed set; the model is instructed to pick exactly one member.
func buildPrompt(text string, history []model.MessageCategory) string {
	categoryList := ""
	for _, cat := range model.MessageCategories() {
		categoryList += fmt.Sprintf("- %s\n", cat)
	}

	historyLine := "none"
	if len(history) > 0 {
		names := make([]string, len(history))
		for i, cat := range history {
			names[i] = string(cat)
		}
		historyLine = strings.Join(names, " > ")
	}

	return fmt.Sprintf(`Classify this insurance customer message into exactly one of the categories below. The message may be in German, French, Italian or English.

Categories:
%s
Recent conversation topics (oldest first):
%s

Message:
%s

Respond with a JSON object in this exact shape:
{"category": "<one category from the list>", "confidence": <0.0-1.0>, "urgency": "<low|medium|high>", "reasoning": "<one short sentence>"}`,
		categoryList,
		historyLine,
		text)
}
