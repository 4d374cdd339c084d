package paymentmock

import (
	"context"

	domain "sacco-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, p *domain.Payment) error
	GetByReferenceFn func(ctx context.Context, reference string) (*domain.Payment, error)
	ListByUserIDFn   func(ctx context.Context, userID string) ([]domain.Payment, error)
	ListAllFn        func(ctx context.Context) ([]domain.Payment, error)
	TotalsFn         func(ctx context.Context, userID string) (domain.Totals, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	if m.GetByReferenceFn != nil {
		return m.GetByReferenceFn(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Payment, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Payment, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Totals(ctx context.Context, userID string) (domain.Totals, error) {
	if m.TotalsFn != nil {
		return m.TotalsFn(ctx, userID)
	}
	return domain.Totals{}, context.Canceled
}
