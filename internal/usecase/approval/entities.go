package approval

import (
	"time"
)

type ReviewInput struct {
	LoanID string
	Note   string
}

type ApprovalDTO struct {
	ApprovalID string    `json:"approval_id"`
	LoanID     string    `json:"loan_id"`
	ReviewerID string    `json:"reviewer_id"`
	Decision   string    `json:"decision"`
	Note       string    `json:"note,omitempty"`
	Status     string    `json:"status"` // loan status after the review
	ReviewedAt time.Time `json:"reviewed_at"`
}
