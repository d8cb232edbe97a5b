package detect

import "github.com/clavisure/clavis/internal/model"

// DefaultRules returns the built-in intent rule table. One table per
// language, rules in declared order; first-declared wins score ties.
// Confirmation rules use anchored patterns so that short tokens like
// "ja" never match inside longer words.
func DefaultRules() []Rule {
	return []Rule{
		// German
		{
			Name:     "faq-de",
			Category: model.CategoryFAQ,
			Language: model.LanguageGerman,
			Keywords: []string{
				"wie kann ich", "wie funktioniert", "wo finde ich", "was bedeutet",
				"export", "revision", "audit", "anleitung", "frage zu",
			},
		},
		{
			Name:     "upload-de",
			Category: model.CategoryDocumentUpload,
			Language: model.LanguageGerman,
			Keywords: []string{
				"hochladen", "dokument einreichen", "upload", "datei senden",
				"beleg einreichen", "foto senden", "unterlagen einreichen",
			},
		},
		{
			Name:     "quote-de",
			Category: model.CategoryInsuranceQuote,
			Language: model.LanguageGerman,
			Keywords: []string{
				"offerte", "angebot", "prämie", "praemie", "tarif",
				"versicherung abschliessen", "police abschliessen", "wie viel kostet",
			},
		},
		{
			Name:     "appointment-de",
			Category: model.CategoryAppointment,
			Language: model.LanguageGerman,
			Keywords: []string{
				"termin", "beratung", "rückruf", "rueckruf", "vereinbaren", "treffen",
			},
		},
		{
			Name:     "claim-de",
			Category: model.CategoryClaim,
			Language: model.LanguageGerman,
			Keywords: []string{
				"schadenfall", "schadenmeldung", "schaden melden", "unfall melden",
				"diebstahl", "einbruch",
			},
		},
		{
			Name:     "confirmation-de",
			Category: model.CategoryConfirmation,
			Language: model.LanguageGerman,
			Patterns: []string{
				`^\s*(ja|nein|genau|korrekt|stimmt|ok|okay|passt)\b`,
			},
		},

		// English
		{
			Name:     "faq-en",
			Category: model.CategoryFAQ,
			Language: model.LanguageEnglish,
			Keywords: []string{
				"how do i", "how can i", "where can i find", "what does",
				"export", "audit", "question about", "instructions",
			},
		},
		{
			Name:     "upload-en",
			Category: model.CategoryDocumentUpload,
			Language: model.LanguageEnglish,
			Keywords: []string{
				"upload", "submit a document", "attach", "send the file",
				"send a document", "hand in",
			},
		},
		{
			Name:     "quote-en",
			Category: model.CategoryInsuranceQuote,
			Language: model.LanguageEnglish,
			Keywords: []string{
				"quote", "premium", "how much does", "insurance offer",
				"take out insurance", "coverage cost",
			},
		},
		{
			Name:     "appointment-en",
			Category: model.CategoryAppointment,
			Language: model.LanguageEnglish,
			Keywords: []string{
				"appointment", "schedule", "book a call", "callback",
				"meeting", "consultation",
			},
		},
		{
			Name:     "claim-en",
			Category: model.CategoryClaim,
			Language: model.LanguageEnglish,
			Keywords: []string{
				"claim", "accident", "damage", "theft", "report a loss",
			},
		},
		{
			Name:     "confirmation-en",
			Category: model.CategoryConfirmation,
			Language: model.LanguageEnglish,
			Patterns: []string{
				`^\s*(yes|no|correct|right|exactly|ok|okay|sure)\b`,
			},
		},

		// French
		{
			Name:     "faq-fr",
			Category: model.CategoryFAQ,
			Language: model.LanguageFrench,
			Keywords: []string{
				"comment puis-je", "comment faire", "où trouver", "ou trouver",
				"que signifie", "exporter", "audit", "question sur",
			},
		},
		{
			Name:     "upload-fr",
			Category: model.CategoryDocumentUpload,
			Language: model.LanguageFrench,
			Keywords: []string{
				"télécharger", "telecharger", "envoyer un document", "joindre",
				"soumettre un document", "justificatif",
			},
		},
		{
			Name:     "quote-fr",
			Category: model.CategoryInsuranceQuote,
			Language: model.LanguageFrench,
			Keywords: []string{
				"offre", "prime", "devis", "combien coûte", "combien coute",
				"souscrire une assurance", "tarif",
			},
		},
		{
			Name:     "appointment-fr",
			Category: model.CategoryAppointment,
			Language: model.LanguageFrench,
			Keywords: []string{
				"rendez-vous", "rendezvous", "rappel", "conseiller", "entretien",
			},
		},
		{
			Name:     "claim-fr",
			Category: model.CategoryClaim,
			Language: model.LanguageFrench,
			Keywords: []string{
				"sinistre", "accident", "dommage", "vol", "déclarer", "declarer",
			},
		},
		{
			Name:     "confirmation-fr",
			Category: model.CategoryConfirmation,
			Language: model.LanguageFrench,
			Patterns: []string{
				`^\s*(oui|non|exact|correct|d'accord|ok)\b`,
			},
		},

		// Italian
		{
			Name:     "faq-it",
			Category: model.CategoryFAQ,
			Language: model.LanguageItalian,
			Keywords: []string{
				"come posso", "come faccio", "dove trovo", "cosa significa",
				"esportare", "audit", "domanda su",
			},
		},
		{
			Name:     "upload-it",
			Category: model.CategoryDocumentUpload,
			Language: model.LanguageItalian,
			Keywords: []string{
				"caricare", "inviare un documento", "allegare",
				"presentare un documento", "giustificativo",
			},
		},
		{
			Name:     "quote-it",
			Category: model.CategoryInsuranceQuote,
			Language: model.LanguageItalian,
			Keywords: []string{
				"offerta", "premio", "preventivo", "quanto costa",
				"stipulare", "tariffa",
			},
		},
		{
			Name:     "appointment-it",
			Category: model.CategoryAppointment,
			Language: model.LanguageItalian,
			Keywords: []string{
				"appuntamento", "consulenza", "richiamata", "fissare", "incontro",
			},
		},
		{
			Name:     "claim-it",
			Category: model.CategoryClaim,
			Language: model.LanguageItalian,
			Keywords: []string{
				"sinistro", "incidente", "danno", "furto", "denunciare",
			},
		},
		{
			Name:     "confirmation-it",
			Category: model.CategoryConfirmation,
			Language: model.LanguageItalian,
			Patterns: []string{
				`^\s*(sì|si|no|esatto|corretto|va bene|ok)\b`,
			},
		},
	}
}
