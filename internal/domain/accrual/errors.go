package accrual

import (
	"errors"
	"fmt"
)

var ErrInvalidLoanData = errors.New("invalid loan data")

// InvalidLoanDataError reports the field that made a calculation impossible.
type InvalidLoanDataError struct {
	Field  string
	Reason string
}

func (e *InvalidLoanDataError) Error() string {
	return fmt.Sprintf("invalid loan data: %s %s", e.Field, e.Reason)
}

func (e *InvalidLoanDataError) Is(target error) bool { return target == ErrInvalidLoanData }

func invalid(field, reason string) error {
	return &InvalidLoanDataError{Field: field, Reason: reason}
}

// Validate rejects loan values no calculation can be made from.
// Missing or malformed timestamps are not errors; they degrade to zero interest.
func Validate(l Loan) error {
	if !l.Principal.IsPositive() {
		return invalid("principal", "must be positive")
	}
	if l.AnnualRatePercent.IsNegative() {
		return invalid("annual_rate_percent", "must not be negative")
	}
	switch l.Status {
	case StatusPending, StatusActive, StatusRejected, StatusCompleted:
	default:
		return invalid("status", fmt.Sprintf("%q is not a loan status", l.Status))
	}
	for i, r := range l.Repayments {
		if !r.Amount.IsPositive() {
			return invalid(fmt.Sprintf("repayments[%d].amount", i), "must be positive")
		}
	}
	return nil
}
