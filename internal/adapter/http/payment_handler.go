package http

import (
	"net/http"

	"sacco-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type recordPaymentReq struct {
	Amount    decimal.Decimal `json:"amount"    validate:"required,gte=1000,dec2"`
	Reference string          `json:"reference" validate:"required,max=128"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req recordPaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	p, err := h.uc.Record(c.Request().Context(), s, payment.RecordInput{Amount: req.Amount, Reference: req.Reference})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) ListMyPayments(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListMine(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) ListAllPayments(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListAll(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
