package http

import (
	"context"
	"net/http"

	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

// body is optional
type reviewLoanReq struct {
	Note string `json:"note" validate:"max=500"`
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	return h.review(c, h.uc.Approve)
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	return h.review(c, h.uc.Reject)
}

type reviewFunc = func(ctx context.Context, s session.Session, in approval.ReviewInput) (*approval.ApprovalDTO, error)

func (h *ApprovalHandler) review(c echo.Context, fn reviewFunc) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	// Validate path param
	loanID, ok := validLoanID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req reviewLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := fn(c.Request().Context(), s, approval.ReviewInput{LoanID: loanID, Note: req.Note})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// LoanReview: GET /loans/:loan_id/review
func (h *ApprovalHandler) LoanReview(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	loanID, ok := validLoanID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.ForLoan(c.Request().Context(), s, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
