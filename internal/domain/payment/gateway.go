package payment

import (
	"context"
)

// Verification is what the gateway reports for a finished checkout.
type Verification struct {
	Reference string
	Success   bool
	// AmountMinor is in the currency's minor unit (cents)
	AmountMinor int64
	Currency    string
	PaidAt      string
}

//go:generate mockgen -source=gateway.go -destination=mock_gateway.go -package=payment

type Gateway interface {
	Verify(ctx context.Context, reference string) (*Verification, error)
}
