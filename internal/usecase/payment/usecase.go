package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sacco-backend/internal/domain/event"
	domain "sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/session"
	"sacco-backend/pkg/id"

	"github.com/shopspring/decimal"
)

var minorUnits = decimal.NewFromInt(100)

type RecordInput struct {
	Amount    decimal.Decimal
	Reference string
}

type Usecase struct {
	repo    domain.Repository
	gateway domain.Gateway
	events  event.Publisher
	now     func() time.Time
}

func NewUsecase(r domain.Repository, gw domain.Gateway, events event.Publisher) *Usecase {
	return &Usecase{
		repo:    r,
		gateway: gw,
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Record stores a savings payment once the gateway confirms it was paid in
// full. A reference can only ever be recorded once.
func (u *Usecase) Record(ctx context.Context, s session.Session, in RecordInput) (*domain.Payment, error) {
	ref := strings.TrimSpace(in.Reference)
	if ref == "" {
		return nil, fmt.Errorf("%w: reference is required", domain.ErrNotVerified)
	}
	if in.Amount.LessThan(domain.MinimumAmount) {
		return nil, fmt.Errorf("%w: minimum is %s", domain.ErrBelowMinimum, domain.MinimumAmount)
	}

	if _, err := u.repo.GetByReference(ctx, ref); err == nil {
		return nil, domain.ErrDuplicateReference
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	v, err := u.gateway.Verify(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotVerified) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if !v.Success {
		return nil, domain.ErrNotVerified
	}
	want := in.Amount.Mul(minorUnits)
	if !want.Equal(decimal.NewFromInt(v.AmountMinor)) || !strings.EqualFold(v.Currency, domain.CurrencyKES) {
		return nil, fmt.Errorf("%w: gateway reported %d %s", domain.ErrAmountMismatch, v.AmountMinor, v.Currency)
	}

	now := u.now()
	paidAt := now
	if t, err := time.Parse(time.RFC3339, v.PaidAt); err == nil {
		paidAt = t.UTC()
	}

	p := &domain.Payment{
		PaymentID: id.NewID32(),
		UserID:    s.UserID,
		UserName:  s.DisplayName(),
		Amount:    in.Amount,
		Currency:  domain.CurrencyKES,
		Reference: ref,
		Gateway:   domain.GatewayPaystack,
		Status:    domain.StatusCompleted,
		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	event.Emit(ctx, u.events, event.New(event.PaymentRecorded, p.PaymentID, p.UserID, p.Amount, now))
	return p, nil
}

func (u *Usecase) ListMine(ctx context.Context, s session.Session) ([]domain.Payment, error) {
	return u.repo.ListByUserID(ctx, s.UserID)
}

func (u *Usecase) ListAll(ctx context.Context, s session.Session) ([]domain.Payment, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	return u.repo.ListAll(ctx)
}
