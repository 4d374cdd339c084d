package accrual

import "github.com/shopspring/decimal"

// Estimate is the figure shown to a member before they submit a request.
type Estimate struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// Quote compounds the monthly rate over the requested period. It is only an
// estimate: the balance actually owed follows CurrentBalance.
func Quote(principal, annualRatePercent decimal.Decimal, periodMonths int) (Estimate, error) {
	if !principal.IsPositive() {
		return Estimate{}, invalid("principal", "must be positive")
	}
	if annualRatePercent.IsNegative() {
		return Estimate{}, invalid("annual_rate_percent", "must not be negative")
	}
	if periodMonths < 1 {
		return Estimate{}, invalid("period_months", "must be at least 1")
	}
	monthly := annualRatePercent.Div(monthsPerYear).Div(hundred)
	growth := decimal.NewFromInt(1).Add(monthly).Pow(decimal.NewFromInt(int64(periodMonths)))
	total := principal.Mul(growth)
	return Estimate{
		TotalAmount:    total.Round(2),
		MonthlyPayment: total.Div(decimal.NewFromInt(int64(periodMonths))).Round(2),
	}, nil
}
