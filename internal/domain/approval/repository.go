package approval

import "context"

type Repository interface {
	// Create fails with ErrAlreadyReviewed when the loan already has a review.
	Create(ctx context.Context, a *Approval) error

	GetByLoanID(ctx context.Context, loanID uint64) (*Approval, error)
}
