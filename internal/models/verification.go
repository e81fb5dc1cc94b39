package models

import "time"

// Verification workflow states.
const (
	VerificationPending     = "pending"
	VerificationUnderReview = "under_review"
	VerificationApproved    = "approved"
	VerificationRejected    = "rejected"
)

// VerificationRequest is a document-verification submission reviewed by an
// admin before an owner or agent may publish listings.
type VerificationRequest struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	UserID       string     `gorm:"index;not null" json:"userId"`
	DocumentType string     `json:"documentType"` // e.g. ownership_deed, agent_license
	DocumentURL  string     `json:"documentUrl"`
	Status       string     `gorm:"default:pending" json:"status"`
	Note         string     `json:"note,omitempty"` // reviewer comment
	SubmittedAt  time.Time  `json:"submittedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy   string     `json:"reviewedBy,omitempty"`
}
