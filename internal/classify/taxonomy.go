package classify

import "github.com/vilmerfrost/solvix/constants"

// Keyword taxonomy per document type. Matching is case-insensitive substring
// containment over filename + body text. Declaration order of
// constants.DocTypes breaks score ties, so iteration must follow it.
var taxonomy = map[constants.DocType][]string{
	constants.DocTypeInvoice: {
		"invoice", "faktura", "ocr", "bankgiro", "plusgiro",
		"due date", "förfallodatum", "amount due", "att betala", "vat", "moms",
	},
	constants.DocTypePurchaseOrder: {
		"purchase order", "po number", "order confirmation",
		"beställning", "inköpsorder", "delivery date", "leveransdatum",
	},
	constants.DocTypeContract: {
		"contract", "agreement", "avtal", "kontrakt",
		"party", "term", "renewal", "uppsägning", "signature",
	},
	constants.DocTypeSupportTicket: {
		"ticket", "incident", "severity", "support", "ärende",
		"affected system", "priority", "escalation",
	},
	constants.DocTypeWeighSlip: {
		"weigh", "vågsedel", "net weight", "tare", "gross weight",
		"tonnage", "material", "mottagare",
	},
}
