package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDomain "sacco-backend/internal/domain/approval"
	loanDomain "sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/uow"
	"sacco-backend/pkg/id"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	mysqldrv "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func makeApprovalDomain(loanNumericID uint64, when time.Time) *approvalDomain.Approval {
	return &approvalDomain.Approval{
		ApprovalID: id.NewID32(),
		LoanID:     loanNumericID,
		ReviewerID: "admin-1",
		Decision:   approvalDomain.DecisionApproved,
		ReviewedAt: when.UTC(),
	}
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	apprRepo := NewApprovalRepository(db)

	var loanPK uint64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan("LN-COMMIT", "user-1")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		loanPK = l.ID
		return r.Approvals.Create(ctx, makeApprovalDomain(l.ID, time.Now()))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, "LN-COMMIT"); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := apprRepo.GetByLoanID(ctx, loanPK); err != nil {
		t.Fatalf("approval not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	boom := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-ROLLBACK", "user-1")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if _, err := loanRepo.GetByLoanID(ctx, "LN-ROLLBACK"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("loan visible after rollback: %v", err)
	}
}

func TestGormUoW_WithinLoanTx_PassesLockedLoan(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	l := makeLoan("LN-LOCK", "user-1")
	l.Status = loanDomain.StateActive
	if err := loanRepo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinLoanTx(ctx, "LN-LOCK", func(r uow.Repos, got *loanDomain.Loan) error {
		if got.ID != l.ID {
			t.Fatalf("locked loan id = %d, want %d", got.ID, l.ID)
		}
		return r.Loans.AppendRepayment(ctx, &loanDomain.Repayment{
			RepaymentID: id.NewID32(),
			LoanID:      got.ID,
			Amount:      decimal.NewFromInt(100),
			PaidAt:      time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, "LN-LOCK")
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if len(got.Repayments) != 1 {
		t.Fatalf("repayments = %d, want 1", len(got.Repayments))
	}
}

func TestGormUoW_WithinLoanTx_RollsBackRepaymentOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	l := makeLoan("LN-UNDO", "user-1")
	l.Status = loanDomain.StateActive
	if err := loanRepo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	boom := errors.New("ledger post failed")
	err := guow.WithinLoanTx(ctx, "LN-UNDO", func(r uow.Repos, got *loanDomain.Loan) error {
		if err := r.Loans.AppendRepayment(ctx, &loanDomain.Repayment{
			RepaymentID: id.NewID32(),
			LoanID:      got.ID,
			Amount:      decimal.NewFromInt(500),
			PaidAt:      time.Now().UTC(),
		}); err != nil {
			t.Fatalf("AppendRepayment: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	var n int64
	if err := db.Model(&loanDomain.Repayment{}).Where("loan_id = ?", l.ID).Count(&n).Error; err != nil {
		t.Fatalf("count repayments: %v", err)
	}
	if n != 0 {
		t.Fatalf("repayments after rollback = %d, want 0", n)
	}
}

// sqlite has no row locks, so the locking read is checked against the MySQL dialect.
func TestGormUoW_WithinLoanTx_SelectsForUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	gdb, err := gorm.Open(mysqldrv.New(mysqldrv.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `loans` WHERE loan_id = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "user_id", "status"}).
			AddRow(7, "LN-ROW", "user-1", "active"))
	mock.ExpectQuery("SELECT \\* FROM `loan_repayments` WHERE `loan_repayments`.`loan_id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id"}))
	mock.ExpectCommit()

	var seen uint64
	err = NewGormUoW(gdb).WithinLoanTx(context.Background(), "LN-ROW", func(_ uow.Repos, l *loanDomain.Loan) error {
		seen = l.ID
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	if seen != 7 {
		t.Fatalf("loan id = %d, want 7", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormUoW_WithinLoanTx_NotFound(t *testing.T) {
	guow := NewGormUoW(openTestDB(t))

	called := false
	err := guow.WithinLoanTx(context.Background(), "LN-MISSING", func(uow.Repos, *loanDomain.Loan) error {
		called = true
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run when the loan is missing")
	}
}

func TestApprovalRepository_OnePerLoan(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loans := NewLoanRepository(db)
	apprs := NewApprovalRepository(db)

	l := makeLoan(id.NewID32(), "user-1")
	if err := loans.Create(ctx, l); err != nil {
		t.Fatalf("Create loan: %v", err)
	}
	if err := apprs.Create(ctx, makeApprovalDomain(l.ID, time.Now())); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if err := apprs.Create(ctx, makeApprovalDomain(l.ID, time.Now())); !errors.Is(err, approvalDomain.ErrAlreadyReviewed) {
		t.Fatalf("second approval for the same loan: want ErrAlreadyReviewed, got %v", err)
	}

	got, err := apprs.GetByLoanID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Decision != approvalDomain.DecisionApproved {
		t.Fatalf("decision = %s", got.Decision)
	}
	if _, err := apprs.GetByLoanID(ctx, l.ID+100); !errors.Is(err, approvalDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
