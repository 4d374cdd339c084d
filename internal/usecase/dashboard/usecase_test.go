package dashboard

import (
	"context"
	"testing"
	"time"

	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/user"
	"sacco-backend/internal/infrastructure/cache"
	"sacco-backend/internal/testutil/loanmock"
	"sacco-backend/internal/testutil/paymentmock"
	"sacco-backend/internal/testutil/usermock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	admin    = session.Session{UserID: "admin-1", Role: user.RoleAdmin}
	member   = session.Session{UserID: "member-1", Role: user.RoleUser}
)

func approvedDaysAgo(days int, principal int64, repaid ...int64) loan.Loan {
	at := fixedNow.Add(-time.Duration(days) * 24 * time.Hour)
	l := loan.Loan{
		UserID:            member.UserID,
		Principal:         decimal.NewFromInt(principal),
		AnnualRatePercent: decimal.NewFromInt(12),
		Status:            loan.StateActive,
		ApprovedAt:        &at,
	}
	for _, r := range repaid {
		l.Repayments = append(l.Repayments, loan.Repayment{Amount: decimal.NewFromInt(r), PaidAt: at})
	}
	return l
}

func repos(listCalls *int) (*loanmock.Repo, *paymentmock.Repo, *usermock.Repo) {
	loans := &loanmock.Repo{
		CountByStatusFn: func(_ context.Context, s loan.State) (int64, error) {
			if s != loan.StatePending {
				return 0, nil
			}
			return 2, nil
		},
		ListByStatusFn: func(context.Context, loan.State) ([]loan.Loan, error) {
			*listCalls++
			// 10000 @ 3 months = 10300; 5000 @ 1 month = 5050 less 1050 repaid
			return []loan.Loan{approvedDaysAgo(90, 10000), approvedDaysAgo(30, 5000, 1050)}, nil
		},
	}
	payments := &paymentmock.Repo{
		TotalsFn: func(_ context.Context, userID string) (payment.Totals, error) {
			if userID == "" {
				return payment.Totals{Count: 7, Amount: decimal.NewFromInt(21000)}, nil
			}
			return payment.Totals{Count: 2, Amount: decimal.NewFromInt(3000)}, nil
		},
	}
	users := &usermock.Repo{CountFn: func(context.Context) (int64, error) { return 4, nil }}
	return loans, payments, users
}

func TestAdminStats_ComputesAndCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	loans, payments, users := repos(&calls)
	uc := NewUsecase(loans, payments, users, cache.NewJSONCache(rdb, "sacco"), time.Minute).
		WithClock(func() time.Time { return fixedNow })

	st, err := uc.AdminStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.TotalMembers)
	assert.Equal(t, int64(7), st.TotalPayments)
	assert.Equal(t, "21000.00", st.TotalSavings.StringFixed(2))
	assert.Equal(t, int64(2), st.PendingLoans)
	assert.Equal(t, int64(2), st.ActiveLoans)
	assert.Equal(t, "14300.00", st.OutstandingBalance.StringFixed(2))

	again, err := uc.AdminStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call should be served from cache")
	assert.True(t, st.OutstandingBalance.Equal(again.OutstandingBalance))

	mr.FastForward(2 * time.Minute)
	_, err = uc.AdminStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry should be recomputed")
}

func TestAdminStats_WithoutCacheAndNonAdmin(t *testing.T) {
	calls := 0
	loans, payments, users := repos(&calls)
	uc := NewUsecase(loans, payments, users, nil, 0).WithClock(func() time.Time { return fixedNow })

	_, err := uc.AdminStats(context.Background(), member)
	assert.ErrorIs(t, err, session.ErrAdminOnly)

	_, err = uc.AdminStats(context.Background(), admin)
	require.NoError(t, err)
	_, err = uc.AdminStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemberSummary(t *testing.T) {
	calls := 0
	_, payments, users := repos(&calls)
	pending := loan.Loan{Principal: decimal.NewFromInt(2000), Status: loan.StatePending}
	rejected := loan.Loan{Principal: decimal.NewFromInt(2000), Status: loan.StateRejected}
	loans := &loanmock.Repo{
		ListByUserIDFn: func(_ context.Context, id string) ([]loan.Loan, error) {
			assert.Equal(t, member.UserID, id)
			return []loan.Loan{approvedDaysAgo(60, 1000, 20), pending, rejected}, nil
		},
	}
	uc := NewUsecase(loans, payments, users, nil, 0).WithClock(func() time.Time { return fixedNow })

	got, err := uc.MemberSummary(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", got.TotalSavings.StringFixed(2))
	assert.Equal(t, int64(2), got.PaymentCount)
	assert.Equal(t, 1, got.PendingLoans)
	assert.Equal(t, 1, got.ActiveLoans)
	// 1000 + 20 interest - 20 repaid
	assert.Equal(t, "1000.00", got.OutstandingBalance.StringFixed(2))
}
