package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegister_Routes(t *testing.T) {
	e := echo.New()
	Register(e, Routes{
		Health:    NewHandler(),
		Loans:     &LoanHandler{},
		Approvals: &ApprovalHandler{},
		Payments:  &PaymentHandler{},
		Members:   &MemberHandler{},
	})

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /me",
		"GET /me/summary",
		"GET /loans/quote",
		"POST /loans",
		"GET /loans/:loan_id",
		"POST /loans/:loan_id/repayments",
		"GET /loans/:loan_id/review",
		"POST /payments",
		"GET /admin/loans",
		"POST /admin/loans/:loan_id/approve",
		"POST /admin/loans/:loan_id/reject",
		"DELETE /admin/members/:user_id/admin",
		"GET /admin/stats",
	} {
		if !have[want] {
			t.Errorf("route %q not registered", want)
		}
	}
	if have["GET /metrics"] {
		t.Errorf("metrics route registered without a handler")
	}
}

func TestRegister_Middleware(t *testing.T) {
	e := echo.New()
	deny := func(code int) echo.MiddlewareFunc {
		return func(echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return c.NoContent(code) }
		}
	}
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	Register(e, Routes{
		Health:    NewHandler(),
		Loans:     &LoanHandler{},
		Approvals: &ApprovalHandler{},
		Payments:  &PaymentHandler{},
		Members:   &MemberHandler{},
		Metrics:   stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusTeapot) }),
		Auth:      pass,
		Admin:     deny(stdhttp.StatusForbidden),
	})

	cases := []struct {
		method, path string
		want         int
	}{
		{stdhttp.MethodGet, "/health", stdhttp.StatusOK},
		{stdhttp.MethodGet, "/metrics", stdhttp.StatusTeapot},
		{stdhttp.MethodGet, "/admin/loans", stdhttp.StatusForbidden},
		{stdhttp.MethodGet, "/admin/stats", stdhttp.StatusForbidden},
		// no session in context
		{stdhttp.MethodGet, "/loans", stdhttp.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s: got %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}
