package http

import (
	"net/http"

	"sacco-backend/internal/domain/session"
	pkgid "sacco-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

// bindAndValidate writes the 400/422 response itself and reports whether the
// handler should continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func sessionOf(c echo.Context) (session.Session, bool) {
	return session.FromContext(c.Request().Context())
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not signed in"})
}

func validLoanID(c echo.Context) (string, bool) {
	id := c.Param("loan_id")
	return id, pkgid.IsID32(id)
}
