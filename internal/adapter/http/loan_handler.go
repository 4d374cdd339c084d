package http

import (
	"net/http"
	"strconv"

	"sacco-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Amount       decimal.Decimal `json:"amount"        validate:"required,gte=1000,intlike"`
	PeriodMonths int             `json:"period_months" validate:"required,gte=1,lte=36"`
	Purpose      string          `json:"purpose"       validate:"required,max=500"`
}

type repayReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req requestLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Request(c.Request().Context(), s, loan.RequestInput{
		Amount:       req.Amount,
		PeriodMonths: req.PeriodMonths,
		Purpose:      req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	loanID, ok := validLoanID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), s, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListMyLoans(c echo.Context) error {
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

func (h *LoanHandler) ListAllLoans(c echo.Context) error {
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

func (h *LoanHandler) Repay(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	loanID, ok := validLoanID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req repayReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), s, loanID, loan.RepayInput{Amount: req.Amount})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Quote: GET /loans/quote?amount=10000&period_months=6
func (h *LoanHandler) Quote(c echo.Context) error {
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a number"})
	}
	period, err := strconv.Atoi(c.QueryParam("period_months"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "period_months must be an integer"})
	}
	est, err := h.uc.Quote(amount, period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"amount":              amount,
		"period_months":       period,
		"annual_rate_percent": h.uc.Rate(),
		"total_amount":        est.TotalAmount,
		"monthly_payment":     est.MonthlyPayment,
	})
}
