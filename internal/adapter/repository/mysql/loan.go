package mysql

import (
	"context"
	"errors"

	loanDomain "sacco-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// withRepayments preloads the repayment history in recording order.
func withRepayments(db *gorm.DB) *gorm.DB {
	return db.Preload("Repayments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("paid_at ASC, id ASC")
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanDomain.ErrNotFound
	}
	return err
}

// Create reports ErrPendingLoanExists when the member already holds a pending
// loan, as enforced by ux_loans_pending_user.
func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && l.Status == loanDomain.StatePending {
		return loanDomain.ErrPendingLoanExists
	}
	return err
}

// Save updates the loan row only; repayments go through AppendRepayment.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := withRepayments(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := withRepayments(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error)
	}
	return &out, nil
}

func (r *LoanRepository) GetPendingLoanByUserID(ctx context.Context, userID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, loanDomain.StatePending).
		Order("created_at DESC, id DESC").
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error)
	}
	return &out, nil
}

func (r *LoanRepository) ListByUserID(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := withRepayments(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := withRepayments(r.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListByStatus(ctx context.Context, status loanDomain.State) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := withRepayments(r.db.WithContext(ctx)).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context, status loanDomain.State) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *LoanRepository) AppendRepayment(ctx context.Context, rp *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(rp).Error
}
