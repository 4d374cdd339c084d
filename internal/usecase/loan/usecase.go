package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sacco-backend/internal/domain/accrual"
	"sacco-backend/internal/domain/event"
	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/uow"
	"sacco-backend/pkg/id"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	repo   loan.Repository
	uow    uow.UnitOfWork
	events event.Publisher
	rate   decimal.Decimal
	now    func() time.Time
}

// NewUsecase: rate is the annual percentage applied to new requests.
func NewUsecase(r loan.Repository, tx uow.UnitOfWork, events event.Publisher, rate decimal.Decimal) *Usecase {
	return &Usecase{
		repo:   r,
		uow:    tx,
		events: events,
		rate:   rate,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the wall clock used as the evaluation time.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Rate() decimal.Decimal { return u.rate }

func invalidRequest(reason string) error {
	return fmt.Errorf("%w: %s", loan.ErrInvalidRequest, reason)
}

func (u *Usecase) Request(ctx context.Context, s session.Session, in RequestInput) (*LoanDTO, error) {
	switch {
	case in.Amount.LessThan(MinPrincipal):
		return nil, invalidRequest("minimum loan amount is " + MinPrincipal.String())
	case in.PeriodMonths < MinPeriodMonths || in.PeriodMonths > MaxPeriodMonths:
		return nil, invalidRequest(fmt.Sprintf("period must be between %d and %d months", MinPeriodMonths, MaxPeriodMonths))
	case strings.TrimSpace(in.Purpose) == "":
		return nil, invalidRequest("purpose is required")
	}

	// Block if the member already has a loan awaiting review.
	pending, err := u.repo.GetPendingLoanByUserID(ctx, s.UserID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", loan.ErrPendingLoanExists, pending.LoanID)
	case !errors.Is(err, loan.ErrNotFound):
		return nil, err
	}

	now := u.now()
	l := &loan.Loan{
		LoanID:            id.NewID32(),
		UserID:            s.UserID,
		UserName:          s.DisplayName(),
		UserEmail:         s.Email,
		Principal:         in.Amount,
		AnnualRatePercent: u.rate,
		PeriodMonths:      in.PeriodMonths,
		Purpose:           strings.TrimSpace(in.Purpose),
		Status:            loan.StatePending,
		CreatedAt:         now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	event.Emit(ctx, u.events, event.New(event.LoanRequested, l.LoanID, l.UserID, l.Principal, now))
	return toDTO(l, now)
}

// Get returns a loan visible to s: its owner or any admin.
func (u *Usecase) Get(ctx context.Context, s session.Session, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(s.UserID) && !s.IsAdmin() {
		// do not reveal other members' loans
		return nil, loan.ErrNotFound
	}
	return toDTO(l, u.now())
}

func (u *Usecase) ListMine(ctx context.Context, s session.Session) ([]LoanDTO, error) {
	loans, err := u.repo.ListByUserID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	return toDTOs(loans, u.now())
}

func (u *Usecase) ListAll(ctx context.Context, s session.Session) ([]LoanDTO, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	loans, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(loans, u.now())
}

// Repay records a repayment under the loan row lock, so the balance check and
// the append cannot interleave with another repayment on the same loan.
func (u *Usecase) Repay(ctx context.Context, s session.Session, loanID string, in RepayInput) (*LoanDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, loan.ErrInvalidAmount
	}
	now := u.now()

	var (
		dto       *LoanDTO
		completed bool
		ownerID   string
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(s.UserID) {
			return loan.ErrForbidden
		}
		if l.Status != loan.StateActive {
			return loan.ErrNotActive
		}
		before, err := accrual.Evaluate(l.Accrual(), now)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(before.Balance) {
			return fmt.Errorf("%w: balance is %s", loan.ErrRepaymentExceedsBalance, before.Balance.StringFixed(2))
		}

		rp := &loan.Repayment{
			RepaymentID: id.NewID32(),
			LoanID:      l.ID,
			Amount:      in.Amount,
			PaidAt:      now,
		}
		if err := r.Loans.AppendRepayment(ctx, rp); err != nil {
			return err
		}
		l.Repayments = append(l.Repayments, *rp)

		if accrual.ShouldComplete(l.Accrual(), now) {
			completedAt := now
			l.Status = loan.StateCompleted
			l.CompletedAt = &completedAt
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			completed = true
		}
		ownerID = l.UserID
		dto, err = toDTO(l, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	event.Emit(ctx, u.events, event.New(event.LoanRepaid, loanID, ownerID, in.Amount, now))
	if completed {
		event.Emit(ctx, u.events, event.New(event.LoanCompleted, loanID, ownerID, dto.TotalRepaid, now))
	}
	return dto, nil
}

// Quote estimates the repayment schedule of a prospective request.
func (u *Usecase) Quote(amount decimal.Decimal, periodMonths int) (*accrual.Estimate, error) {
	if periodMonths < MinPeriodMonths || periodMonths > MaxPeriodMonths {
		return nil, invalidRequest(fmt.Sprintf("period_months must be between %d and %d", MinPeriodMonths, MaxPeriodMonths))
	}
	est, err := accrual.Quote(amount, u.rate, periodMonths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", loan.ErrInvalidRequest, err)
	}
	return &est, nil
}
