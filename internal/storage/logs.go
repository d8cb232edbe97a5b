package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/clavisure/clavis/internal/model"
)

// ClassificationRecord is one audited resolver decision.
type ClassificationRecord struct {
	CreatedAt   time.Time
	SessionID   string
	MessageText string
	Language    model.Language
	Category    model.MessageCategory
	Urgency     model.Urgency
	AppliedRule string
	Confidence  float64
	ID          int64
}

// RoutingRecord is one audited document routing decision.
type RoutingRecord struct {
	CreatedAt       time.Time
	InitialCategory model.DocumentCategory
	FinalCategory   model.DocumentCategory
	TargetTable     string
	OverrideReason  string
	Overridden      bool
	ID              int64
}

// SaveClassification appends a resolver decision to the audit log.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, rec *ClassificationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classification_log
			(session_id, message_text, language, category, confidence, urgency, applied_rule)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.MessageText, rec.Language, rec.Category,
		rec.Confidence, rec.Urgency, rec.AppliedRule)
	if err != nil {
		return fmt.Errorf("failed to save classification record: %w", err)
	}
	return nil
}

// SaveRouting appends a routing decision to the audit log.
func (s *SQLiteStorage) SaveRouting(ctx context.Context, rec *RoutingRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO routing_log
			(initial_category, final_category, target_table, overridden, override_reason)
		VALUES (?, ?, ?, ?, ?)`,
		rec.InitialCategory, rec.FinalCategory, rec.TargetTable,
		rec.Overridden, rec.OverrideReason)
	if err != nil {
		return fmt.Errorf("failed to save routing record: %w", err)
	}
	return nil
}

// RecentClassifications returns the newest audit records, newest first.
func (s *SQLiteStorage) RecentClassifications(ctx context.Context, limit int) ([]ClassificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, message_text, language, category, confidence, urgency, applied_rule, created_at
		FROM classification_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classification log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ClassificationRecord
	for rows.Next() {
		var rec ClassificationRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.MessageText, &rec.Language,
			&rec.Category, &rec.Confidence, &rec.Urgency, &rec.AppliedRule, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
