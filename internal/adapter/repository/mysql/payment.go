package mysql

import (
	"context"
	"errors"

	paymentDomain "sacco-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return paymentDomain.ErrDuplicateReference
	}
	return err
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("reference = ?", reference).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("paid_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).Order("paid_at DESC, id DESC").Find(&out).Error
	return out, err
}

// Totals sums payments; an empty userID means every member.
func (r *PaymentRepository) Totals(ctx context.Context, userID string) (paymentDomain.Totals, error) {
	q := r.db.WithContext(ctx).Model(&paymentDomain.Payment{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	// amounts are summed in Go so the result stays exact on every driver
	var amounts []decimal.Decimal
	if err := q.Pluck("amount", &amounts).Error; err != nil {
		return paymentDomain.Totals{}, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return paymentDomain.Totals{Count: int64(len(amounts)), Amount: total}, nil
}
