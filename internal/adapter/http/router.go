package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes holds everything Register wires. Auth and Idempotency run on every
// member route; Admin additionally guards /admin.
type Routes struct {
	Health    *Handler
	Loans     *LoanHandler
	Approvals *ApprovalHandler
	Payments  *PaymentHandler
	Members   *MemberHandler

	Metrics     http.Handler
	Auth        echo.MiddlewareFunc
	Admin       echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	var mw []echo.MiddlewareFunc
	for _, m := range []echo.MiddlewareFunc{r.Auth, r.Idempotency} {
		if m != nil {
			mw = append(mw, m)
		}
	}
	g := e.Group("", mw...)

	g.POST("/me", r.Members.EnsureProfile)
	g.GET("/me", r.Members.Me)
	g.GET("/me/summary", r.Members.Summary)

	g.GET("/loans/quote", r.Loans.Quote)
	g.POST("/loans", r.Loans.RequestLoan)
	g.GET("/loans", r.Loans.ListMyLoans)
	g.GET("/loans/:loan_id", r.Loans.GetLoan)
	g.POST("/loans/:loan_id/repayments", r.Loans.Repay)
	g.GET("/loans/:loan_id/review", r.Approvals.LoanReview)

	g.POST("/payments", r.Payments.RecordPayment)
	g.GET("/payments", r.Payments.ListMyPayments)

	var adminMW []echo.MiddlewareFunc
	if r.Admin != nil {
		adminMW = append(adminMW, r.Admin)
	}
	admin := g.Group("/admin", adminMW...)
	admin.GET("/loans", r.Loans.ListAllLoans)
	admin.POST("/loans/:loan_id/approve", r.Approvals.ApproveLoan)
	admin.POST("/loans/:loan_id/reject", r.Approvals.RejectLoan)
	admin.GET("/payments", r.Payments.ListAllPayments)
	admin.GET("/members", r.Members.ListMembers)
	admin.POST("/members/:user_id/admin", r.Members.GrantAdmin)
	admin.DELETE("/members/:user_id/admin", r.Members.RevokeAdmin)
	admin.GET("/stats", r.Members.AdminStats)
}
