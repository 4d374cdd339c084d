package approvalmock

import (
	"context"
	"errors"
	"testing"

	domain "sacco-backend/internal/domain/approval"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	a := &domain.Approval{ApprovalID: "APR-1", LoanID: 123}

	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(_ context.Context, got *domain.Approval) error {
			if got != a {
				t.Fatalf("arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, a); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}

	m = &Repo{}
	if err := m.Create(ctx, a); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Approval{ApprovalID: "APR-2", LoanID: 42}

	m := &Repo{
		GetByLoanIDFn: func(_ context.Context, id uint64) (*domain.Approval, error) {
			if id != 42 {
				t.Fatalf("loan id mismatch: %d", id)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanID(ctx, 42)
	if err != nil || got != want {
		t.Fatalf("GetByLoanID: got %+v, %v", got, err)
	}

	m = &Repo{}
	if _, err := m.GetByLoanID(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByLoanID default: want ErrNotFound, got %v", err)
	}
}
