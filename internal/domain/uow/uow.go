package uow

import (
	"context"

	"sacco-backend/internal/domain/approval"
	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans     loan.Repository
	Approvals approval.Repository
	Users     user.Repository
	Payments  payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock loan first, then pass it in; concurrent callers on the same loan serialize here
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
