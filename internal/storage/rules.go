package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// PatternRuleRecord is one persisted pattern rule override. Keywords and
// Patterns are stored as JSON arrays in their columns.
type PatternRuleRecord struct {
	Name     string
	Category string
	Language string
	Keywords []string
	Patterns []string
}

// ReplacePatternRules swaps the persisted rule table for the given set in
// one transaction. Rules are all-or-nothing: a partial table would change
// tie-break behavior silently.
func (s *SQLiteStorage) ReplacePatternRules(ctx context.Context, rules []PatternRuleRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_rules`); err != nil {
		return fmt.Errorf("failed to clear pattern rules: %w", err)
	}

	for _, r := range rules {
		keywords, err := json.Marshal(r.Keywords)
		if err != nil {
			return fmt.Errorf("failed to encode keywords for rule %q: %w", r.Name, err)
		}
		patterns, err := json.Marshal(r.Patterns)
		if err != nil {
			return fmt.Errorf("failed to encode patterns for rule %q: %w", r.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pattern_rules (name, category, language, keywords, patterns)
			VALUES (?, ?, ?, ?, ?)`,
			r.Name, r.Category, r.Language, string(keywords), string(patterns)); err != nil {
			return fmt.Errorf("failed to insert rule %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pattern rules: %w", err)
	}
	return nil
}

// ListPatternRules returns the persisted rule table in insertion order.
// An empty result means no override is installed.
func (s *SQLiteStorage) ListPatternRules(ctx context.Context) ([]PatternRuleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, language, keywords, patterns
		FROM pattern_rules
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []PatternRuleRecord
	for rows.Next() {
		var rec PatternRuleRecord
		var keywords, patterns string
		if err := rows.Scan(&rec.Name, &rec.Category, &rec.Language, &keywords, &patterns); err != nil {
			return nil, fmt.Errorf("failed to scan pattern rule: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("failed to decode keywords for rule %q: %w", rec.Name, err)
		}
		if patterns != "" {
			if err := json.Unmarshal([]byte(patterns), &rec.Patterns); err != nil {
				return nil, fmt.Errorf("failed to decode patterns for rule %q: %w", rec.Name, err)
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
