package approval

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("approval not found")
	ErrAlreadyReviewed = errors.New("loan already has a review")
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Table: loan_approvals. One review per loan, whatever the outcome.
type Approval struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ApprovalID string `gorm:"column:approval_id;size:32;not null;uniqueIndex:ux_loan_approvals_approval_id"`
	// FK to loans.id (numeric)
	LoanID     uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_approvals_loan_id"`
	ReviewerID string         `gorm:"column:reviewer_id;size:128;not null"`
	Decision   Decision       `gorm:"column:decision;type:varchar(16);not null"`
	Note       string         `gorm:"column:note;type:text"`
	ReviewedAt time.Time      `gorm:"column:reviewed_at;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Approval) TableName() string { return "loan_approvals" }
