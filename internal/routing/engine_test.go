package routing

import (
	"testing"

	"github.com/clavisure/clavis/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRouteOverrides(t *testing.T) {
	e := New(nil, nil)

	tests := []struct {
		name           string
		text           string
		summary        string
		initial        model.DocumentCategory
		wantCategory   model.DocumentCategory
		wantTable      string
		wantOverridden bool
	}{
		{
			name:           "suva marker reroutes to accident report",
			initial:        model.DocMiscellaneous,
			text:           "SUVA Schadenmeldung vom 12. März",
			wantCategory:   model.DocAccidentReport,
			wantTable:      "accident_reports",
			wantOverridden: true,
		},
		{
			name:           "accident co-occurrence reroutes",
			initial:        model.DocMiscellaneous,
			text:           "Beim Unfall zog sich der Mitarbeiter eine Verletzung am Arm zu",
			wantCategory:   model.DocAccidentReport,
			wantTable:      "accident_reports",
			wantOverridden: true,
		},
		{
			name:           "unfall alone is not enough",
			initial:        model.DocMiscellaneous,
			text:           "Fragen zur Unfallversicherung allgemein",
			wantCategory:   model.DocMiscellaneous,
			wantTable:      "documents_misc",
			wantOverridden: false,
		},
		{
			name:           "summary clause reroutes",
			initial:        model.DocMiscellaneous,
			text:           "",
			summary:        "Unfallbericht mit ausgefülltem Formular",
			wantCategory:   model.DocAccidentReport,
			wantTable:      "accident_reports",
			wantOverridden: true,
		},
		{
			name:           "cancellation letter reroutes",
			initial:        model.DocMiscellaneous,
			text:           "Hiermit kündige ich meinen Vertrag per Ende Jahr",
			wantCategory:   model.DocCancellation,
			wantTable:      "cancellations",
			wantOverridden: true,
		},
		{
			name:           "invoice markers reroute",
			initial:        model.DocMiscellaneous,
			text:           "Rechnungsbetrag CHF 320.00, zahlbar bis 30.09.",
			wantCategory:   model.DocInvoice,
			wantTable:      "invoices",
			wantOverridden: true,
		},
		{
			name:           "matching initial label is never overridden to itself",
			initial:        model.DocAccidentReport,
			text:           "SUVA Schadenmeldung",
			wantCategory:   model.DocAccidentReport,
			wantTable:      "accident_reports",
			wantOverridden: false,
		},
		{
			name:           "no rule matches keeps initial",
			initial:        model.DocPolicy,
			text:           "Allgemeine Versicherungsbedingungen Ausgabe 2026",
			wantCategory:   model.DocPolicy,
			wantTable:      "policies",
			wantOverridden: false,
		},
		{
			name:           "invalid initial category becomes miscellaneous",
			initial:        "unknown",
			text:           "irgendwas",
			wantCategory:   model.DocMiscellaneous,
			wantTable:      "documents_misc",
			wantOverridden: false,
		},
		{
			name:           "empty inputs keep initial",
			initial:        model.DocInvoice,
			text:           "",
			wantCategory:   model.DocInvoice,
			wantTable:      "invoices",
			wantOverridden: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Route(tt.initial, tt.text, tt.summary)
			assert.Equal(t, tt.wantCategory, got.FinalCategory)
			assert.Equal(t, tt.wantTable, got.TargetTable)
			assert.Equal(t, tt.wantOverridden, got.Overridden)
			if tt.wantOverridden {
				assert.NotEmpty(t, got.OverrideReason)
			}
		})
	}
}

func TestRouteExclusionAlwaysWins(t *testing.T) {
	e := New(nil, nil)

	// A cancellation letter that mentions accident insurance must not be
	// rerouted to the accident report table.
	got := e.Route(model.DocMiscellaneous,
		"Hiermit kündige ich meine Unfallversicherung, der Unfall und die Verletzung sind ausgeheilt", "")

	assert.NotEqual(t, model.DocAccidentReport, got.FinalCategory)
	assert.Equal(t, model.DocCancellation, got.FinalCategory)
}

func TestRouteInitialLabelVetoesOverride(t *testing.T) {
	e := New(nil, nil)

	tests := []struct {
		name    string
		initial model.DocumentCategory
		text    string
		want    model.DocumentCategory
	}{
		{
			name:    "invoice stays invoice despite accident co-occurrence",
			initial: model.DocInvoice,
			text:    "behandlung nach dem unfall, verletzung am knie",
			want:    model.DocInvoice,
		},
		{
			name:    "policy stays policy despite suva marker",
			initial: model.DocPolicy,
			text:    "SUVA Deckung gemäss UVG",
			want:    model.DocPolicy,
		},
		{
			name:    "invoice is not rerouted to cancellation",
			initial: model.DocInvoice,
			text:    "Hinweis zur Kündigung auf der letzten Seite",
			want:    model.DocInvoice,
		},
		{
			name:    "miscellaneous with the same text is still rerouted",
			initial: model.DocMiscellaneous,
			text:    "behandlung nach dem unfall, verletzung am knie",
			want:    model.DocAccidentReport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Route(tt.initial, tt.text, "")
			assert.Equal(t, tt.want, got.FinalCategory)
			assert.Equal(t, tt.want == model.DocAccidentReport, got.Overridden)
		})
	}
}

func TestRouteExclusionInSummary(t *testing.T) {
	e := New(nil, nil)

	// Inclusion matches in the text, exclusion appears only in the summary.
	got := e.Route(model.DocMiscellaneous,
		"SUVA Schadenmeldung",
		"Beilage zur Kündigung der Police")

	assert.NotEqual(t, model.DocAccidentReport, got.FinalCategory)
}

func TestTableFor(t *testing.T) {
	assert.Equal(t, "accident_reports", TableFor(model.DocAccidentReport))
	assert.Equal(t, "cancellations", TableFor(model.DocCancellation))
	assert.Equal(t, "invoices", TableFor(model.DocInvoice))
	assert.Equal(t, "policies", TableFor(model.DocPolicy))
	assert.Equal(t, "documents_misc", TableFor(model.DocMiscellaneous))
	assert.Equal(t, "documents_misc", TableFor("unknown"))
}
