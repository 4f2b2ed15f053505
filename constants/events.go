package constants

// Event names dispatched to the external webhook/notification layer.
// Payloads are versioned; see events.Event.
const (
	EventDocumentClassified = "document.classified"
	EventDocumentProcessed  = "document.processed"
	EventDocumentReviewed   = "document.reviewed"
	EventDocumentApproved   = "document.approved"
	EventDocumentRejected   = "document.rejected"
	EventSlaWarning         = "sla.warning"
	EventSlaBreach          = "sla.breach"
)
