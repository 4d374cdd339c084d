package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sacco-backend/internal/domain/event"
	"sacco-backend/internal/testutil/eventmock"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/loans/:loan_id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	for _, path := range []string{"/loans/a", "/loans/b", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/loans/:loan_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500")))
}

func TestCountingPublisher(t *testing.T) {
	m := New()
	next := &eventmock.Recorder{}
	p := m.WrapPublisher(next)
	e := event.New(event.LoanApproved, "LN-1", "u1", decimal.NewFromInt(1000), time.Now())

	require.NoError(t, p.Publish(context.Background(), e))
	next.Err = errors.New("down")
	require.Error(t, p.Publish(context.Background(), e))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("loan.approved", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("loan.approved", "error")))
	assert.Len(t, next.Events(), 2)

	require.NoError(t, p.Close())
	assert.True(t, next.Closed())
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.EventsTotal.WithLabelValues("payment.recorded", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `sacco_events_total{outcome="ok",type="payment.recorded"} 1`))
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}
