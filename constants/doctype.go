package constants

// DocType is the canonical document type produced by classification.
type DocType string

// Stable values (store these exact strings in DB).
const (
	DocTypeInvoice       DocType = "invoice"
	DocTypePurchaseOrder DocType = "purchase_order"
	DocTypeContract      DocType = "contract"
	DocTypeSupportTicket DocType = "support_ticket"
	DocTypeWeighSlip     DocType = "weigh_slip"
	DocTypeUnknown       DocType = "unknown"
)

// DocTypes lists all classifiable types in taxonomy declaration order.
// Order matters: classification ties resolve to the first-declared type.
var DocTypes = []DocType{
	DocTypeInvoice,
	DocTypePurchaseOrder,
	DocTypeContract,
	DocTypeSupportTicket,
	DocTypeWeighSlip,
}

// DecisionSource records which mechanism produced a classification's final answer.
type DecisionSource string

const (
	SourceModel        DecisionSource = "model"
	SourceRuleOverride DecisionSource = "rule_override"
	SourceFallback     DecisionSource = "fallback"
)
