package engine

import (
	"context"
	"sync"
	"time"

	"github.com/clavisure/clavis/internal/model"
)

// MockClassifier is a test implementation of the Classifier interface. It
// returns a scripted result and records every call.
type MockClassifier struct {
	// Result is returned on each call; nil simulates a failed or timed-out
	// classification.
	Result *model.DetectionResult
	// Delay, if set, is waited before answering; a context deadline that
	// fires first yields nil, as the real adapter would.
	Delay time.Duration

	calls []string
	mu    sync.Mutex
}

// NewMockClassifier creates a mock with no scripted result (every call
// behaves like a failed AI classification).
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns the scripted result, honoring Delay and context.
func (m *MockClassifier) Classify(ctx context.Context, text string, _ []model.MessageCategory) *model.DetectionResult {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.Delay):
		}
	}

	if m.Result == nil {
		return nil
	}
	result := *m.Result
	return &result
}

// Calls returns the texts passed to Classify so far.
func (m *MockClassifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
