// Package accrual computes a loan's financial state from its recorded fields.
//
// Interest is simple interest on the principal, prorated by whole elapsed months
// since approval, where a month is exactly 30 days. Every function here is pure:
// callers pass the loan as a value together with the evaluation time.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// DaysPerMonth is the fixed month length used for accrual.
const DaysPerMonth = 30

const monthDuration = DaysPerMonth * 24 * time.Hour

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

type Repayment struct {
	Amount decimal.Decimal
	Date   time.Time
}

// Loan is the engine's view of a loan record.
type Loan struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	Status            string
	// nil or zero means the loan was never approved
	ApprovedAt *time.Time
	Repayments []Repayment
}

type Summary struct {
	Balance              decimal.Decimal `json:"balance"`
	TotalRepaid          decimal.Decimal `json:"total_repaid"`
	TotalInterestAccrued decimal.Decimal `json:"total_interest_accrued"`
	MonthsElapsed        int             `json:"months_elapsed"`
	ShouldComplete       bool            `json:"should_complete"`
}

// MonthsElapsed returns the whole 30-day periods between approvedAt and now,
// never negative.
func MonthsElapsed(approvedAt, now time.Time) int {
	if now.Before(approvedAt) {
		return 0
	}
	return int(now.Sub(approvedAt) / monthDuration)
}

func approvalTime(l Loan) (time.Time, bool) {
	if l.ApprovedAt == nil || l.ApprovedAt.IsZero() {
		return time.Time{}, false
	}
	return *l.ApprovedAt, true
}

// TotalInterestAccrued is principal × rate/100 × months/12, rounded to cents.
// Loans that are not active, or carry no approval time, accrue nothing.
func TotalInterestAccrued(l Loan, now time.Time) decimal.Decimal {
	if l.Status != StatusActive {
		return decimal.Zero
	}
	approvedAt, ok := approvalTime(l)
	if !ok {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(MonthsElapsed(approvedAt, now)))
	// single division keeps the result exact whenever it terminates
	return l.Principal.
		Mul(l.AnnualRatePercent).
		Mul(months).
		Div(hundred.Mul(monthsPerYear)).
		Round(2)
}

func TotalRepaid(l Loan) decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.Repayments {
		total = total.Add(r.Amount)
	}
	return total
}

// CurrentBalance returns the principal for any loan that is not active.
// For an active loan it is principal + interest - repaid, clamped at zero.
func CurrentBalance(l Loan, now time.Time) decimal.Decimal {
	if l.Status != StatusActive {
		return l.Principal
	}
	owed := l.Principal.Add(TotalInterestAccrued(l, now)).Sub(TotalRepaid(l))
	if owed.IsNegative() {
		return decimal.Zero
	}
	return owed
}

func ShouldComplete(l Loan, now time.Time) bool {
	return l.Status == StatusActive && CurrentBalance(l, now).IsZero()
}

// Evaluate validates l and returns every derived figure at now.
func Evaluate(l Loan, now time.Time) (Summary, error) {
	if err := Validate(l); err != nil {
		return Summary{}, err
	}
	s := Summary{
		Balance:              CurrentBalance(l, now),
		TotalRepaid:          TotalRepaid(l),
		TotalInterestAccrued: TotalInterestAccrued(l, now),
		ShouldComplete:       ShouldComplete(l, now),
	}
	if at, ok := approvalTime(l); ok && l.Status == StatusActive {
		s.MonthsElapsed = MonthsElapsed(at, now)
	}
	return s, nil
}
