package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row until the surrounding tx ends
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetPendingLoanByUserID(ctx context.Context, userID string) (*Loan, error)
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	ListByStatus(ctx context.Context, status State) ([]Loan, error)
	CountByStatus(ctx context.Context, status State) (int64, error)

	// Repayments are append-only
	AppendRepayment(ctx context.Context, r *Repayment) error
}
