package constants

// ReviewStatus is the canonical status for rows in review_tasks.
type ReviewStatus string

// Stable values (store these exact strings in DB).
const (
	ReviewStatusNew              ReviewStatus = "new"
	ReviewStatusAssigned         ReviewStatus = "assigned"
	ReviewStatusInReview         ReviewStatus = "in_review"
	ReviewStatusChangesRequested ReviewStatus = "changes_requested"
	ReviewStatusApproved         ReviewStatus = "approved"
	ReviewStatusRejected         ReviewStatus = "rejected"
)

// Terminal reports whether a status ends the review lifecycle.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// SlaRisk is the three-valued escalation state from SLA evaluation.
type SlaRisk string

const (
	SlaRiskNone    SlaRisk = "none"
	SlaRiskWarning SlaRisk = "warning"
	SlaRiskBreach  SlaRisk = "breach"
)
