package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("payment not found")
	ErrBelowMinimum       = errors.New("payment is below the minimum amount")
	ErrDuplicateReference = errors.New("payment reference already recorded")
	ErrNotVerified        = errors.New("payment was not successful at the gateway")
	ErrAmountMismatch     = errors.New("gateway amount does not match the payment")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

const (
	GatewayPaystack = "paystack"
	CurrencyKES     = "KES"
	StatusCompleted = "completed"
)

// MinimumAmount is the smallest savings payment accepted, in KES.
var MinimumAmount = decimal.NewFromInt(1000)

type Payment struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string          `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	UserID    string          `gorm:"size:128;index" json:"user_id"`
	UserName  string          `gorm:"size:255" json:"user_name"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Reference string          `gorm:"size:128;not null;uniqueIndex:ux_payments_reference" json:"reference"`
	Gateway   string          `gorm:"size:32;not null" json:"gateway"`
	Status    string          `gorm:"size:16;not null" json:"status"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// Totals aggregates payments for dashboards.
type Totals struct {
	Count  int64
	Amount decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	ListByUserID(ctx context.Context, userID string) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
	Totals(ctx context.Context, userID string) (Totals, error)
}
