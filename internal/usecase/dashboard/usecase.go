package dashboard

import (
	"context"
	"log/slog"
	"time"

	"sacco-backend/internal/domain/accrual"
	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/user"

	"github.com/shopspring/decimal"
)

const adminStatsKey = "admin-stats"

// Cache is satisfied by cache.JSONCache. Any Get error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type AdminStats struct {
	TotalMembers       int64           `json:"total_members"`
	TotalPayments      int64           `json:"total_payments"`
	TotalSavings       decimal.Decimal `json:"total_savings"`
	PendingLoans       int64           `json:"pending_loans"`
	ActiveLoans        int64           `json:"active_loans"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

type MemberSummary struct {
	TotalSavings       decimal.Decimal `json:"total_savings"`
	PaymentCount       int64           `json:"payment_count"`
	PendingLoans       int             `json:"pending_loans"`
	ActiveLoans        int             `json:"active_loans"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

type Usecase struct {
	loans    loan.Repository
	payments payment.Repository
	users    user.Repository
	cache    Cache
	ttl      time.Duration
	now      func() time.Time
}

// NewUsecase: cache may be nil, in which case stats are computed every time.
func NewUsecase(loans loan.Repository, payments payment.Repository, users user.Repository, c Cache, ttl time.Duration) *Usecase {
	return &Usecase{
		loans:    loans,
		payments: payments,
		users:    users,
		cache:    c,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) AdminStats(ctx context.Context, s session.Session) (*AdminStats, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	if u.cache != nil {
		var cached AdminStats
		if err := u.cache.Get(ctx, adminStatsKey, &cached); err == nil {
			return &cached, nil
		}
	}

	now := u.now()
	st := &AdminStats{GeneratedAt: now}
	var err error
	if st.TotalMembers, err = u.users.Count(ctx); err != nil {
		return nil, err
	}
	totals, err := u.payments.Totals(ctx, "")
	if err != nil {
		return nil, err
	}
	st.TotalPayments, st.TotalSavings = totals.Count, totals.Amount
	if st.PendingLoans, err = u.loans.CountByStatus(ctx, loan.StatePending); err != nil {
		return nil, err
	}
	active, err := u.loans.ListByStatus(ctx, loan.StateActive)
	if err != nil {
		return nil, err
	}
	st.ActiveLoans = int64(len(active))
	if st.OutstandingBalance, err = outstanding(active, now); err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, adminStatsKey, st, u.ttl); err != nil {
			slog.WarnContext(ctx, "admin stats cache write failed", "error", err)
		}
	}
	return st, nil
}

func (u *Usecase) MemberSummary(ctx context.Context, s session.Session) (*MemberSummary, error) {
	totals, err := u.payments.Totals(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	loans, err := u.loans.ListByUserID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}

	sum := &MemberSummary{TotalSavings: totals.Amount, PaymentCount: totals.Count}
	var active []loan.Loan
	for _, l := range loans {
		switch l.Status {
		case loan.StatePending:
			sum.PendingLoans++
		case loan.StateActive:
			active = append(active, l)
		}
	}
	sum.ActiveLoans = len(active)
	if sum.OutstandingBalance, err = outstanding(active, u.now()); err != nil {
		return nil, err
	}
	return sum, nil
}

func outstanding(active []loan.Loan, now time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range active {
		s, err := accrual.Evaluate(active[i].Accrual(), now)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(s.Balance)
	}
	return total, nil
}
