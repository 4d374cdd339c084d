package mysql

import (
	"context"
	"errors"

	approvalDomain "sacco-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

// Create relies on ux_loan_approvals_loan_id to keep one review per loan.
func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return approvalDomain.ErrAlreadyReviewed
	}
	return err
}

func (r *ApprovalRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*approvalDomain.Approval, error) {
	var a approvalDomain.Approval
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
