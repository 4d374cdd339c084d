package loan

import (
	"errors"
	"time"

	"sacco-backend/internal/domain/accrual"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound                = errors.New("loan not found")
	ErrAlreadyApproved         = errors.New("loan already approved")
	ErrInvalidTransition       = errors.New("loan not in a state that can be reviewed")
	ErrNotActive               = errors.New("loan is not active")
	ErrForbidden               = errors.New("loan belongs to another member")
	ErrPendingLoanExists       = errors.New("member already has a pending loan")
	ErrInvalidAmount           = errors.New("repayment amount must be positive")
	ErrRepaymentExceedsBalance = errors.New("repayment exceeds outstanding balance")
	ErrInvalidRequest          = errors.New("invalid loan request")
)

type State string

const (
	StatePending   State = accrual.StatusPending
	StateActive    State = accrual.StatusActive
	StateRejected  State = accrual.StatusRejected
	StateCompleted State = accrual.StatusCompleted
)

type Loan struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID            string          `gorm:"size:128;index:idx_loans_user_status" json:"user_id"`
	UserName          string          `gorm:"size:255" json:"user_name"`
	UserEmail         string          `gorm:"size:255" json:"user_email"`
	Principal         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal"`
	AnnualRatePercent decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"annual_rate_percent"`
	PeriodMonths      int             `gorm:"not null" json:"period_months"`
	Purpose           string          `gorm:"type:text" json:"purpose"`
	Status            State           `gorm:"type:varchar(16);not null;default:'pending';index:idx_loans_user_status" json:"status"`
	// PendingUserID mirrors UserID while the loan is pending and is NULL
	// otherwise; its unique index allows one pending loan per member.
	PendingUserID     *string         `gorm:"size:128;uniqueIndex:ux_loans_pending_user" json:"-"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	Repayments        []Repayment     `gorm:"foreignKey:LoanID;references:ID" json:"repayments"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// BeforeSave keeps PendingUserID in step with Status on every insert and update.
func (l *Loan) BeforeSave(*gorm.DB) error {
	if l.Status == StatePending {
		owner := l.UserID
		l.PendingUserID = &owner
	} else {
		l.PendingUserID = nil
	}
	return nil
}

// Repayment rows are only ever inserted.
type Repayment struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID string          `gorm:"size:32;uniqueIndex:ux_loan_repayments_repayment_id" json:"repayment_id"`
	LoanID      uint64          `gorm:"not null;index" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaidAt      time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"-"`
}

func (Repayment) TableName() string { return "loan_repayments" }

// Accrual converts the stored record into the engine's input value.
func (l *Loan) Accrual() accrual.Loan {
	out := accrual.Loan{
		Principal:         l.Principal,
		AnnualRatePercent: l.AnnualRatePercent,
		Status:            string(l.Status),
		ApprovedAt:        l.ApprovedAt,
		Repayments:        make([]accrual.Repayment, 0, len(l.Repayments)),
	}
	for _, r := range l.Repayments {
		out.Repayments = append(out.Repayments, accrual.Repayment{Amount: r.Amount, Date: r.PaidAt})
	}
	return out
}

func (l *Loan) OwnedBy(userID string) bool { return l.UserID == userID }
