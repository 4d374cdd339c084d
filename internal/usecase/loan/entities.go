package loan

import (
	"time"

	"sacco-backend/internal/domain/accrual"
	domain "sacco-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const (
	MinPeriodMonths = 1
	MaxPeriodMonths = 36
)

// MinPrincipal is the smallest loan a member can request, in KES.
var MinPrincipal = decimal.NewFromInt(1000)

type RequestInput struct {
	Amount       decimal.Decimal
	PeriodMonths int
	Purpose      string
}

type RepayInput struct {
	Amount decimal.Decimal
}

type RepaymentDTO struct {
	RepaymentID string          `json:"repayment_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paid_at"`
}

type LoanDTO struct {
	LoanID            string          `json:"loan_id"`
	UserID            string          `json:"user_id"`
	UserName          string          `json:"user_name"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	PeriodMonths      int             `json:"period_months"`
	Purpose           string          `json:"purpose"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	Repayments        []RepaymentDTO  `json:"repayments"`
	accrual.Summary
}

// toDTO evaluates l at now. Completed loans are reported as settled: zero
// balance, with interest taken from what was actually repaid.
func toDTO(l *domain.Loan, now time.Time) (*LoanDTO, error) {
	sum, err := accrual.Evaluate(l.Accrual(), now)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StateCompleted {
		sum.Balance = decimal.Zero
		if paid := sum.TotalRepaid.Sub(l.Principal); paid.IsPositive() {
			sum.TotalInterestAccrued = paid
		}
	}
	dto := &LoanDTO{
		LoanID:            l.LoanID,
		UserID:            l.UserID,
		UserName:          l.UserName,
		Principal:         l.Principal,
		AnnualRatePercent: l.AnnualRatePercent,
		PeriodMonths:      l.PeriodMonths,
		Purpose:           l.Purpose,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt,
		ApprovedAt:        l.ApprovedAt,
		CompletedAt:       l.CompletedAt,
		Repayments:        make([]RepaymentDTO, 0, len(l.Repayments)),
		Summary:           sum,
	}
	for _, r := range l.Repayments {
		dto.Repayments = append(dto.Repayments, RepaymentDTO{RepaymentID: r.RepaymentID, Amount: r.Amount, PaidAt: r.PaidAt})
	}
	return dto, nil
}

func toDTOs(loans []domain.Loan, now time.Time) ([]LoanDTO, error) {
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		dto, err := toDTO(&loans[i], now)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}
