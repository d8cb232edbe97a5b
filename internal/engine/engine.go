// Package engine orchestrates the hybrid classification pipeline: pattern
// detector, confidence gate, AI classifier, resolver, conversation state
// machine and document router.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clavisure/clavis/internal/conversation"
	"github.com/clavisure/clavis/internal/detect"
	"github.com/clavisure/clavis/internal/gate"
	"github.com/clavisure/clavis/internal/model"
	"github.com/clavisure/clavis/internal/resolve"
	"github.com/clavisure/clavis/internal/routing"
	"github.com/clavisure/clavis/internal/session"
	"github.com/clavisure/clavis/internal/storage"
)

// Deps holds the engine's collaborators. Classifier, Finalizer and Audit
// are optional: without a classifier the engine degrades to pattern-only
// classification, without an audit log decisions are not recorded.
type Deps struct {
	Detector   *detect.Matcher
	Gate       *gate.Gate
	Resolver   *resolve.Resolver
	Machine    *conversation.Machine
	Router     *routing.Engine
	Sessions   session.Store
	Classifier Classifier
	Finalizer  Finalizer
	Audit      AuditLog
	Logger     *slog.Logger
}

// Engine exposes the three public operations: Classify (message path),
// Advance (conversation path) and Route (document path).
type Engine struct {
	detector   *detect.Matcher
	gate       *gate.Gate
	resolver   *resolve.Resolver
	machine    *conversation.Machine
	router     *routing.Engine
	sessions   session.Store
	classifier Classifier
	finalizer  Finalizer
	audit      AuditLog
	logger     *slog.Logger
}

// New creates an engine from its collaborators.
func New(deps Deps) (*Engine, error) {
	if deps.Detector == nil || deps.Gate == nil || deps.Resolver == nil ||
		deps.Machine == nil || deps.Router == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("detector, gate, resolver, machine, router and sessions are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Engine{
		detector:   deps.Detector,
		gate:       deps.Gate,
		resolver:   deps.Resolver,
		machine:    deps.Machine,
		router:     deps.Router,
		sessions:   deps.Sessions,
		classifier: deps.Classifier,
		finalizer:  deps.Finalizer,
		audit:      deps.Audit,
		logger:     deps.Logger,
	}, nil
}

// Classify resolves a message into its authoritative classification. The
// pattern detector always runs; the AI classifier runs only when the gate
// escalates, and any AI failure degrades to the pattern result within the
// configured timeout rather than failing the turn.
func (e *Engine) Classify(ctx context.Context, text string, lang model.Language, state *model.ConversationState) model.ResolvedClassification {
	pattern := e.detector.Match(text, lang)
	decision := e.gate.Decide(pattern, state)

	var ai *model.DetectionResult
	escalated := decision == gate.DecisionEscalate
	if escalated && e.classifier != nil {
		ai = e.classifier.Classify(ctx, text, topicHistory(state))
	}

	res := e.resolver.Resolve(pattern, ai, escalated, text, lang)
	res.Tentative = decision == gate.DecisionTentative

	e.logger.Debug("message classified",
		"category", res.Category,
		"confidence", res.Confidence,
		"applied_rule", res.AppliedRule,
		"urgency", res.Urgency,
		"tentative", res.Tentative)

	e.auditClassification(ctx, text, lang, state, res)

	return res
}

// Advance applies one conversation turn. While a flow is active the message
// is treated as the current slot's value and is not re-classified, unless
// the pattern detector sees a different flow-starting intent; only then does
// the full classification path (with AI confirmation) run.
func (e *Engine) Advance(ctx context.Context, sessionID, text string, lang model.Language) (model.Directive, *model.ConversationState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return model.Directive{}, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if state == nil {
		state = model.NewConversationState(sessionID)
	}

	// A flow whose finalization failed last turn gets exactly one retry.
	if state.Phase == model.PhaseFlowComplete {
		directive := e.finalize(ctx, state)
		if err := e.sessions.Save(ctx, state); err != nil {
			return directive, state, fmt.Errorf("failed to save session: %w", err)
		}
		return directive, state, nil
	}

	var res *model.ResolvedClassification
	if state.Phase == model.PhaseFlowActive {
		pattern := e.detector.Match(text, lang)
		if pattern.Category.StartsFlow() && model.FlowForCategory(pattern.Category) != state.ActiveFlow {
			resolved := e.Classify(ctx, text, lang, state)
			res = &resolved
		}
	} else {
		resolved := e.Classify(ctx, text, lang, state)
		res = &resolved
	}

	directive := e.machine.Advance(state, res, text)

	if directive.Kind == model.DirectiveFlowComplete && state.Phase == model.PhaseFlowComplete {
		directive = e.finalize(ctx, state)
	}

	if err := e.sessions.Save(ctx, state); err != nil {
		return directive, state, fmt.Errorf("failed to save session: %w", err)
	}

	return directive, state, nil
}

// Route decides the final storage category for a processed document.
func (e *Engine) Route(ctx context.Context, initialCategory model.DocumentCategory, extractedText, summary string) model.RoutingDecision {
	decision := e.router.Route(initialCategory, extractedText, summary)

	if e.audit != nil {
		rec := &storage.RoutingRecord{
			InitialCategory: initialCategory,
			FinalCategory:   decision.FinalCategory,
			TargetTable:     decision.TargetTable,
			Overridden:      decision.Overridden,
			OverrideReason:  decision.OverrideReason,
		}
		if err := e.audit.SaveRouting(ctx, rec); err != nil {
			e.logger.Warn("failed to audit routing decision", "error", err)
		}
	}

	return decision
}

// finalize runs the external side effect for a completed flow. Without a
// finalizer the completion is immediate.
func (e *Engine) finalize(ctx context.Context, state *model.ConversationState) model.Directive {
	if e.finalizer == nil {
		return e.machine.FinalizeSucceeded(state)
	}

	slots := make(map[model.SlotName]string, len(state.CollectedSlots))
	for k, v := range state.CollectedSlots {
		slots[k] = v
	}

	if err := e.finalizer.Finalize(ctx, state.ActiveFlow, slots); err != nil {
		e.logger.Warn("flow finalization failed",
			"session_id", state.SessionID,
			"flow", state.ActiveFlow,
			"error", err)
		return e.machine.FinalizeFailed(state)
	}

	return e.machine.FinalizeSucceeded(state)
}

func (e *Engine) auditClassification(ctx context.Context, text string, lang model.Language, state *model.ConversationState, res model.ResolvedClassification) {
	if e.audit == nil {
		return
	}

	sessionID := ""
	if state != nil {
		sessionID = state.SessionID
	}

	rec := &storage.ClassificationRecord{
		SessionID:   sessionID,
		MessageText: text,
		Language:    model.NormalizeLanguage(string(lang)),
		Category:    res.Category,
		Confidence:  res.Confidence,
		Urgency:     res.Urgency,
		AppliedRule: res.AppliedRule,
	}
	if err := e.audit.SaveClassification(ctx, rec); err != nil {
		e.logger.Warn("failed to audit classification", "error", err)
	}
}

func topicHistory(state *model.ConversationState) []model.MessageCategory {
	if state == nil {
		return nil
	}
	return state.TopicHistory
}
