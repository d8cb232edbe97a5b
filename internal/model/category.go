// Package model defines the core domain types shared across the engine.
package model

// MessageCategory is the closed set of intents a customer message can resolve to.
type MessageCategory string

const (
	// CategoryFAQ represents a question answerable from the knowledge base.
	CategoryFAQ MessageCategory = "faq"
	// CategoryDocumentUpload represents a request to submit a document.
	CategoryDocumentUpload MessageCategory = "document_upload"
	// CategoryInsuranceQuote represents a request for an insurance quote.
	CategoryInsuranceQuote MessageCategory = "insurance_quote"
	// CategoryAppointment represents a request to book an appointment.
	CategoryAppointment MessageCategory = "appointment"
	// CategoryClaim represents a claim report or claim status query.
	CategoryClaim MessageCategory = "claim"
	// CategoryGeneralQuery is the fallback when nothing else matches.
	CategoryGeneralQuery MessageCategory = "general_query"
	// CategoryConfirmation represents a yes/no style confirmation of a prior turn.
	CategoryConfirmation MessageCategory = "confirmation"
)

// MessageCategories lists every valid message category in declaration order.
func MessageCategories() []MessageCategory {
	return []MessageCategory{
		CategoryFAQ,
		CategoryDocumentUpload,
		CategoryInsuranceQuote,
		CategoryAppointment,
		CategoryClaim,
		CategoryGeneralQuery,
		CategoryConfirmation,
	}
}

// Valid reports whether c is a member of the closed message category set.
func (c MessageCategory) Valid() bool {
	switch c {
	case CategoryFAQ, CategoryDocumentUpload, CategoryInsuranceQuote,
		CategoryAppointment, CategoryClaim, CategoryGeneralQuery, CategoryConfirmation:
		return true
	}
	return false
}

// StartsFlow reports whether a classification into c begins a multi-turn flow.
func (c MessageCategory) StartsFlow() bool {
	switch c {
	case CategoryInsuranceQuote, CategoryAppointment, CategoryDocumentUpload:
		return true
	}
	return false
}

// DocumentCategory is the closed set of storage categories for uploaded documents.
type DocumentCategory string

const (
	// DocAccidentReport routes to the accident report table.
	DocAccidentReport DocumentCategory = "accident_report"
	// DocCancellation routes to the policy cancellation table.
	DocCancellation DocumentCategory = "cancellation"
	// DocInvoice routes to the invoice table.
	DocInvoice DocumentCategory = "invoice"
	// DocPolicy routes to the policy document table.
	DocPolicy DocumentCategory = "policy"
	// DocMiscellaneous is the catch-all for everything else.
	DocMiscellaneous DocumentCategory = "miscellaneous"
)

// Valid reports whether c is a member of the document category set.
func (c DocumentCategory) Valid() bool {
	switch c {
	case DocAccidentReport, DocCancellation, DocInvoice, DocPolicy, DocMiscellaneous:
		return true
	}
	return false
}

// Language identifies a supported UI language.
type Language string

const (
	// LanguageGerman is the default language.
	LanguageGerman Language = "de"
	// LanguageEnglish is English.
	LanguageEnglish Language = "en"
	// LanguageFrench is French.
	LanguageFrench Language = "fr"
	// LanguageItalian is Italian.
	LanguageItalian Language = "it"
)

// NormalizeLanguage maps an arbitrary language tag to a supported Language,
// falling back to German for anything unsupported.
func NormalizeLanguage(tag string) Language {
	switch Language(tag) {
	case LanguageGerman, LanguageEnglish, LanguageFrench, LanguageItalian:
		return Language(tag)
	}
	return LanguageGerman
}

// Urgency expresses how quickly a message should be handled.
type Urgency string

const (
	// UrgencyLow is the default when no urgency keyword is present.
	UrgencyLow Urgency = "low"
	// UrgencyMedium indicates the user asked for a quick turnaround.
	UrgencyMedium Urgency = "medium"
	// UrgencyHigh indicates an emergency or explicit urgency.
	UrgencyHigh Urgency = "high"
)
