package loanmock

import (
	"context"

	domain "sacco-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.Loan) error
	SaveFn                   func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn            func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn   func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingLoanByUserIDFn func(ctx context.Context, userID string) (*domain.Loan, error)
	ListByUserIDFn           func(ctx context.Context, userID string) ([]domain.Loan, error)
	ListAllFn                func(ctx context.Context) ([]domain.Loan, error)
	ListByStatusFn           func(ctx context.Context, status domain.State) ([]domain.Loan, error)
	CountByStatusFn          func(ctx context.Context, status domain.State) (int64, error)
	AppendRepaymentFn        func(ctx context.Context, r *domain.Repayment) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingLoanByUserID(ctx context.Context, userID string) (*domain.Loan, error) {
	if m.GetPendingLoanByUserIDFn != nil {
		return m.GetPendingLoanByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.State) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context, status domain.State) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, status)
	}
	return 0, context.Canceled
}

func (m *Repo) AppendRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.AppendRepaymentFn != nil {
		return m.AppendRepaymentFn(ctx, r)
	}
	return nil
}
