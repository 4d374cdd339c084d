package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"testing"
	"time"

	domainLoan "sacco-backend/internal/domain/loan"
	domainPayment "sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/uow"
	"sacco-backend/internal/domain/user"
	"sacco-backend/internal/testutil/loanmock"
	"sacco-backend/internal/testutil/paymentmock"
	"sacco-backend/internal/testutil/uowmock"
	"sacco-backend/internal/testutil/usermock"
	"sacco-backend/internal/usecase/dashboard"
	"sacco-backend/internal/usecase/member"

	"github.com/shopspring/decimal"
)

func newMemberHandler(users *usermock.Repo, loans *loanmock.Repo, payments *paymentmock.Repo) *MemberHandler {
	m := member.NewUsecase(users, uowmock.Inline(uow.Repos{Users: users}))
	d := dashboard.NewUsecase(loans, payments, users, nil, time.Minute)
	return NewMemberHandler(m, d)
}

func TestEnsureProfile_FirstMemberBecomesAdmin(t *testing.T) {
	e := newEchoWithValidator()
	var created *user.User
	users := &usermock.Repo{
		CountFn: func(context.Context) (int64, error) { return 0, nil },
		CreateFn: func(_ context.Context, u *user.User) error {
			created = u
			return nil
		},
	}
	h := newMemberHandler(users, &loanmock.Repo{}, &paymentmock.Repo{})

	c, rec := newCtx(e, stdhttp.MethodPost, "/me", nil, &memberSess)
	if err := h.EnsureProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusOK)
	if created == nil || created.Role != user.RoleAdmin || created.Email != memberSess.Email {
		t.Fatalf("expected first profile to be admin, got %+v", created)
	}
}

func TestEnsureProfile_MissingEmail(t *testing.T) {
	e := newEchoWithValidator()
	h := newMemberHandler(&usermock.Repo{}, &loanmock.Repo{}, &paymentmock.Repo{})

	s := memberSess
	s.Email = ""
	c, rec := newCtx(e, stdhttp.MethodPost, "/me", nil, &s)
	if err := h.EnsureProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusUnprocessableEntity)
}

func TestMe_NoProfile(t *testing.T) {
	e := newEchoWithValidator()
	h := newMemberHandler(&usermock.Repo{}, &loanmock.Repo{}, &paymentmock.Repo{})

	c, rec := newCtx(e, stdhttp.MethodGet, "/me", nil, &memberSess)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusNotFound)
}

func TestRoleChanges(t *testing.T) {
	e := newEchoWithValidator()

	cases := []struct {
		name   string
		sess   *session.Session
		target string
		revoke bool
		want   int
	}{
		{"admin grants", &adminSess, "member-2", false, stdhttp.StatusOK},
		{"admin revokes other", &adminSess, "member-2", true, stdhttp.StatusOK},
		{"admin cannot revoke self", &adminSess, adminSess.UserID, true, stdhttp.StatusForbidden},
		{"member cannot grant", &memberSess, "member-2", false, stdhttp.StatusForbidden},
		{"unknown member", &adminSess, "ghost", false, stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var updated user.Role
			users := &usermock.Repo{
				UpdateRoleFn: func(_ context.Context, id string, role user.Role) error {
					if id == "ghost" {
						return user.ErrNotFound
					}
					updated = role
					return nil
				},
				GetByUserIDFn: func(_ context.Context, id string) (*user.User, error) {
					return &user.User{UserID: id, Role: updated}, nil
				},
			}
			h := newMemberHandler(users, &loanmock.Repo{}, &paymentmock.Repo{})

			method, fn := stdhttp.MethodPost, h.GrantAdmin
			if tc.revoke {
				method, fn = stdhttp.MethodDelete, h.RevokeAdmin
			}
			c, rec := newCtx(e, method, "/admin/members/"+tc.target+"/admin", nil, tc.sess)
			c.SetParamNames("user_id")
			c.SetParamValues(tc.target)
			if err := fn(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			expectStatus(t, rec, tc.want)
		})
	}
}

func TestSummary(t *testing.T) {
	e := newEchoWithValidator()
	approved := time.Now().UTC().Add(-31 * 24 * time.Hour)
	loans := &loanmock.Repo{
		ListByUserIDFn: func(context.Context, string) ([]domainLoan.Loan, error) {
			return []domainLoan.Loan{
				{LoanID: testLoanID, Principal: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(12), Status: domainLoan.StateActive, ApprovedAt: &approved},
				{LoanID: otherLoanID, Principal: decimal.NewFromInt(2000), AnnualRatePercent: decimal.NewFromInt(12), Status: domainLoan.StatePending},
			}, nil
		},
	}
	payments := &paymentmock.Repo{
		TotalsFn: func(context.Context, string) (domainPayment.Totals, error) {
			return domainPayment.Totals{Count: 2, Amount: decimal.NewFromInt(3000)}, nil
		},
	}
	h := newMemberHandler(&usermock.Repo{}, loans, payments)

	c, rec := newCtx(e, stdhttp.MethodGet, "/me/summary", nil, &memberSess)
	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusOK)

	var got dashboard.MemberSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ActiveLoans != 1 || got.PendingLoans != 1 || got.PaymentCount != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if !got.OutstandingBalance.Equal(decimal.NewFromInt(1010)) {
		t.Fatalf("expected outstanding 1010, got %s", got.OutstandingBalance)
	}
}

func TestAdminStats_AdminOnly(t *testing.T) {
	e := newEchoWithValidator()
	users := &usermock.Repo{CountFn: func(context.Context) (int64, error) { return 3, nil }}
	loans := &loanmock.Repo{
		CountByStatusFn: func(context.Context, domainLoan.State) (int64, error) { return 1, nil },
		ListByStatusFn:  func(context.Context, domainLoan.State) ([]domainLoan.Loan, error) { return nil, nil },
	}
	payments := &paymentmock.Repo{
		TotalsFn: func(context.Context, string) (domainPayment.Totals, error) {
			return domainPayment.Totals{Count: 4, Amount: decimal.NewFromInt(8000)}, nil
		},
	}
	h := newMemberHandler(users, loans, payments)

	c, rec := newCtx(e, stdhttp.MethodGet, "/admin/stats", nil, &memberSess)
	if err := h.AdminStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusForbidden)

	c, rec = newCtx(e, stdhttp.MethodGet, "/admin/stats", nil, &adminSess)
	if err := h.AdminStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, stdhttp.StatusOK)

	var got dashboard.AdminStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.TotalMembers != 3 || got.PendingLoans != 1 || !got.TotalSavings.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
