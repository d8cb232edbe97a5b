package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/clavisure/clavis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestNewSQLiteStorageRejectsBadPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)

	// A directory is not a usable database file; the open must fail cleanly.
	_, err = NewSQLiteStorage(t.TempDir())
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveAndReadClassifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	records := []*ClassificationRecord{
		{
			SessionID:   "sess-1",
			MessageText: "Ich möchte eine Offerte",
			Language:    model.LanguageGerman,
			Category:    model.CategoryInsuranceQuote,
			Confidence:  0.9,
			Urgency:     model.UrgencyLow,
			AppliedRule: model.RuleDirectPattern,
		},
		{
			SessionID:   "sess-2",
			MessageText: "urgent claim",
			Language:    model.LanguageEnglish,
			Category:    model.CategoryClaim,
			Confidence:  0.75,
			Urgency:     model.UrgencyHigh,
			AppliedRule: model.RuleEscalatedAI,
		},
	}
	for _, rec := range records {
		require.NoError(t, s.SaveClassification(ctx, rec))
	}

	got, err := s.RecentClassifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "sess-2", got[0].SessionID)
	assert.Equal(t, model.CategoryClaim, got[0].Category)
	assert.Equal(t, model.UrgencyHigh, got[0].Urgency)
	assert.Equal(t, model.RuleEscalatedAI, got[0].AppliedRule)
	assert.InDelta(t, 0.75, got[0].Confidence, 0.001)
	assert.False(t, got[0].CreatedAt.IsZero())

	assert.Equal(t, "sess-1", got[1].SessionID)
}

func TestRecentClassificationsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveClassification(ctx, &ClassificationRecord{
			SessionID:   "sess",
			MessageText: "msg",
			Language:    model.LanguageGerman,
			Category:    model.CategoryFAQ,
			AppliedRule: model.RuleDirectPattern,
		}))
	}

	got, err := s.RecentClassifications(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSaveRouting(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.SaveRouting(ctx, &RoutingRecord{
		InitialCategory: model.DocMiscellaneous,
		FinalCategory:   model.DocAccidentReport,
		TargetTable:     "accident_reports",
		Overridden:      true,
		OverrideReason:  `matched "suva"`,
	}))

	var count int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM routing_log`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}
