package engine

import (
	"context"

	"github.com/clavisure/clavis/internal/model"
	"github.com/clavisure/clavis/internal/storage"
)

// Classifier is the AI detector behind the escalation path. A nil return
// means the call failed or timed out; the engine falls back to the pattern
// result rather than failing the turn.
type Classifier interface {
	Classify(ctx context.Context, text string, history []model.MessageCategory) *model.DetectionResult
}

// Finalizer performs the flow-specific external side effect when a flow
// completes: quote computation, appointment confirmation, upload handoff.
type Finalizer interface {
	Finalize(ctx context.Context, flow model.Flow, slots map[model.SlotName]string) error
}

// AuditLog records every resolved decision for later inspection.
type AuditLog interface {
	SaveClassification(ctx context.Context, rec *storage.ClassificationRecord) error
	SaveRouting(ctx context.Context, rec *storage.RoutingRecord) error
}
