// Package finalize implements the external side effects of completed flows.
package finalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/clavisure/clavis/internal/common"
	"github.com/clavisure/clavis/internal/model"
)

const defaultRequestTimeout = 10 * time.Second

// WebhookFinalizer hands completed flows to a downstream system via an HTTP
// POST. Transient failures are retried with backoff; a rejection (4xx) is
// final and surfaces to the conversation path as a failed finalization.
type WebhookFinalizer struct {
	client *http.Client
	logger *slog.Logger
	url    string
	retry  common.RetryOptions
}

// NewWebhookFinalizer creates a finalizer posting to the given URL.
func NewWebhookFinalizer(url string, timeout time.Duration, logger *slog.Logger) (*WebhookFinalizer, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: webhook URL", common.ErrMissingConfig)
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookFinalizer{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// webhookPayload is the wire shape of a completed flow.
type webhookPayload struct {
	CompletedAt time.Time                `json:"completed_at"`
	Slots       map[model.SlotName]string `json:"slots"`
	Flow        model.Flow               `json:"flow"`
}

// Finalize posts the collected slots downstream.
func (f *WebhookFinalizer) Finalize(ctx context.Context, flow model.Flow, slots map[model.SlotName]string) error {
	body, err := json.Marshal(webhookPayload{
		Flow:        flow,
		Slots:       slots,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return f.post(ctx, body)
	}, f.retry)
	if err != nil {
		return fmt.Errorf("webhook finalization for %s flow failed: %w", flow, err)
	}

	f.logger.Info("flow handed off",
		"flow", flow,
		"slots", len(slots))
	return nil
}

func (f *WebhookFinalizer) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		// The payload itself was rejected; retrying cannot help.
		return &common.RetryableError{
			Err:       fmt.Errorf("webhook rejected payload with %d", resp.StatusCode),
			Retryable: false,
		}
	}
	return nil
}
