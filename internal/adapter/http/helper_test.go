package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

var (
	memberSess = session.Session{UserID: "member-1", Email: "m1@example.com", Name: "Akinyi", Role: user.RoleUser}
	adminSess  = session.Session{UserID: "admin-1", Email: "admin@example.com", Name: "Treasurer", Role: user.RoleAdmin}
)

const (
	testLoanID  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	otherLoanID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// newCtx builds an echo context for method/target. A nil session leaves the
// request anonymous.
func newCtx(e *echo.Echo, method, target string, body io.Reader, s *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if s != nil {
		req = req.WithContext(session.WithContext(req.Context(), *s))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("invalid error JSON: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d (%s), got %d: %s", want, stdhttp.StatusText(want), rec.Code, rec.Body.String())
	}
}
