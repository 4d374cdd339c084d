package http

import (
	"errors"
	"log/slog"
	"net/http"

	"sacco-backend/internal/domain/accrual"
	"sacco-backend/internal/domain/approval"
	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

var statusByErr = []struct {
	err  error
	code int
}{
	{loan.ErrNotFound, http.StatusNotFound},
	{approval.ErrNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{payment.ErrNotFound, http.StatusNotFound},

	{session.ErrAdminOnly, http.StatusForbidden},
	{loan.ErrForbidden, http.StatusForbidden},
	{user.ErrSelfDemotion, http.StatusForbidden},

	{loan.ErrAlreadyApproved, http.StatusConflict},
	{approval.ErrAlreadyReviewed, http.StatusConflict},
	{loan.ErrInvalidTransition, http.StatusConflict},
	{loan.ErrNotActive, http.StatusConflict},
	{loan.ErrPendingLoanExists, http.StatusConflict},
	{loan.ErrRepaymentExceedsBalance, http.StatusConflict},
	{payment.ErrDuplicateReference, http.StatusConflict},
	{user.ErrAlreadyExists, http.StatusConflict},

	{loan.ErrInvalidRequest, http.StatusUnprocessableEntity},
	{loan.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{payment.ErrBelowMinimum, http.StatusUnprocessableEntity},
	{payment.ErrNotVerified, http.StatusUnprocessableEntity},
	{payment.ErrAmountMismatch, http.StatusUnprocessableEntity},
	{user.ErrMissingEmail, http.StatusUnprocessableEntity},

	{payment.ErrGatewayUnavailable, http.StatusBadGateway},
}

// statusFor maps a use-case error to its HTTP status.
func statusFor(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return http.StatusInternalServerError
}

// writeError is the single place use-case errors become responses. Internal
// errors are logged and never echoed to the client.
func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		attrs := []any{"error", err, "path", c.Path()}
		if errors.Is(err, accrual.ErrInvalidLoanData) {
			attrs = append(attrs, "kind", "invalid_loan_data")
		}
		slog.ErrorContext(c.Request().Context(), "request failed", attrs...)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
