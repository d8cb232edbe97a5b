// Package routing corrects a document's initial classification label before
// it is persisted, using two-tier inclusion/exclusion keyword rules.
package routing

import "github.com/clavisure/clavis/internal/model"

// clauseScope selects which input a clause is evaluated against.
type clauseScope int

const (
	scopeText clauseScope = iota
	scopeSummary
)

// clause is one inclusion alternative. It matches when any term of anyOf is
// present, or when every group in coOccur contributes at least one term.
type clause struct {
	anyOf   []string
	coOccur [][]string
	scope   clauseScope
}

// TargetRule is one override target: if any inclusion clause matches and
// neither an exclusion term nor an excluded initial label is present, the
// document is rerouted to Category/Table.
// Exclusion always wins over inclusion; single-keyword matching over-triggers
// (a cancellation letter mentioning "Unfallversicherung" must not become an
// accident report), hence the two tiers.
type TargetRule struct {
	Category       model.DocumentCategory
	Table          string
	inclusion      []clause
	exclusion      []string
	excludedLabels []model.DocumentCategory
}

// tableByCategory maps every document category to its storage table.
var tableByCategory = map[model.DocumentCategory]string{
	model.DocAccidentReport: "accident_reports",
	model.DocCancellation:   "cancellations",
	model.DocInvoice:        "invoices",
	model.DocPolicy:         "policies",
	model.DocMiscellaneous:  "documents_misc",
}

// TableFor returns the storage table for a document category.
func TableFor(c model.DocumentCategory) string {
	if table, ok := tableByCategory[c]; ok {
		return table
	}
	return tableByCategory[model.DocMiscellaneous]
}

// DefaultTargetRules returns the built-in override rules, evaluated in order.
func DefaultTargetRules() []TargetRule {
	return []TargetRule{
		{
			Category: model.DocAccidentReport,
			Table:    tableByCategory[model.DocAccidentReport],
			inclusion: []clause{
				{scope: scopeText, anyOf: []string{"suva", "uvg", "arbeitsunfall", "betriebsunfall"}},
				{scope: scopeText, coOccur: [][]string{{"unfall"}, {"verletzung"}}},
				{scope: scopeSummary, coOccur: [][]string{
					{"unfallbericht", "unfallversicherung"},
					{"schadenmeldung", "formular"},
				}},
			},
			// Stems, so both "Kündigung" and "hiermit kündige" veto.
			exclusion: []string{"kündig", "kuendig", "police", "rechnung", "invoice"},
			// An already typed invoice, cancellation or policy document stays
			// what it is even when its body describes the accident.
			excludedLabels: []model.DocumentCategory{
				model.DocInvoice, model.DocCancellation, model.DocPolicy,
			},
		},
		{
			Category: model.DocCancellation,
			Table:    tableByCategory[model.DocCancellation],
			inclusion: []clause{
				{scope: scopeText, anyOf: []string{
					"kündigung", "kuendigung", "hiermit kündige", "résiliation",
					"resiliation", "disdetta", "cancellation", "terminate my policy",
				}},
				{scope: scopeSummary, anyOf: []string{"kündigungsschreiben", "kuendigungsschreiben"}},
			},
			exclusion:      []string{"rechnung", "invoice", "mahnung"},
			excludedLabels: []model.DocumentCategory{model.DocInvoice},
		},
		{
			Category: model.DocInvoice,
			Table:    tableByCategory[model.DocInvoice],
			inclusion: []clause{
				{scope: scopeText, anyOf: []string{
					"rechnungsbetrag", "zahlbar bis", "facture", "fattura",
					"amount due", "iban",
				}},
				{scope: scopeText, coOccur: [][]string{{"rechnung"}, {"betrag", "chf", "total"}}},
			},
			exclusion:      []string{"kündig", "kuendig"},
			excludedLabels: []model.DocumentCategory{model.DocCancellation},
		},
	}
}
