package approval

import (
	"context"
	"errors"
	"strings"
	"time"

	domainApproval "sacco-backend/internal/domain/approval"
	"sacco-backend/internal/domain/event"
	domainLoan "sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/uow"
	"sacco-backend/pkg/id"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	uow    uow.UnitOfWork
	events event.Publisher
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, events event.Publisher) *Usecase {
	return &Usecase{
		uow:    tx,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Approve(ctx context.Context, s session.Session, in ReviewInput) (*ApprovalDTO, error) {
	return u.review(ctx, s, in, domainApproval.DecisionApproved)
}

func (u *Usecase) Reject(ctx context.Context, s session.Session, in ReviewInput) (*ApprovalDTO, error) {
	return u.review(ctx, s, in, domainApproval.DecisionRejected)
}

// review moves a pending loan to active or rejected. The loan row stays locked
// for the whole check-then-write, so two admins cannot both review it.
func (u *Usecase) review(ctx context.Context, s session.Session, in ReviewInput, decision domainApproval.Decision) (*ApprovalDTO, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	now := u.now()

	var (
		dto     *ApprovalDTO
		ownerID string
		amount  decimal.Decimal
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		switch l.Status {
		case domainLoan.StatePending:
		case domainLoan.StateActive, domainLoan.StateCompleted:
			return domainLoan.ErrAlreadyApproved
		default:
			return domainLoan.ErrInvalidTransition
		}

		// a review row without a status change means an earlier write was lost
		if _, err := r.Approvals.GetByLoanID(ctx, l.ID); err == nil {
			return domainLoan.ErrInvalidTransition
		} else if !errors.Is(err, domainApproval.ErrNotFound) {
			return err
		}

		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			LoanID:     l.ID,
			ReviewerID: s.UserID,
			Decision:   decision,
			Note:       strings.TrimSpace(in.Note),
			ReviewedAt: now,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}

		if decision == domainApproval.DecisionApproved {
			approvedAt := now
			l.Status = domainLoan.StateActive
			l.ApprovedAt = &approvedAt
		} else {
			l.Status = domainLoan.StateRejected
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		ownerID, amount = l.UserID, l.Principal
		dto = toDTO(a, l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t := event.LoanRejected
	if decision == domainApproval.DecisionApproved {
		t = event.LoanApproved
	}
	event.Emit(ctx, u.events, event.New(t, in.LoanID, ownerID, amount, now))
	return dto, nil
}

// ForLoan returns the review of a loan to its owner or any admin.
func (u *Usecase) ForLoan(ctx context.Context, s session.Session, loanID string) (*ApprovalDTO, error) {
	var dto *ApprovalDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if !l.OwnedBy(s.UserID) && !s.IsAdmin() {
			return domainLoan.ErrNotFound
		}
		a, err := r.Approvals.GetByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		dto = toDTO(a, l)
		return nil
	})
	return dto, err
}

func toDTO(a *domainApproval.Approval, l *domainLoan.Loan) *ApprovalDTO {
	return &ApprovalDTO{
		ApprovalID: a.ApprovalID,
		LoanID:     l.LoanID,
		ReviewerID: a.ReviewerID,
		Decision:   string(a.Decision),
		Note:       a.Note,
		Status:     string(l.Status),
		ReviewedAt: a.ReviewedAt,
	}
}
