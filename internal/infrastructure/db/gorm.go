package db

import (
	"log/slog"
	"time"

	"sacco-backend/internal/domain/approval"
	"sacco-backend/internal/domain/loan"
	"sacco-backend/internal/domain/payment"
	"sacco-backend/internal/domain/user"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector opens, tunes the pool and pings. Tests pass a dialector
// over a mocked *sql.DB.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		// pinged below, after the pool is tuned
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	slog.Info("gorm: connected")
	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&loan.Loan{},
		&loan.Repayment{},
		&approval.Approval{},
		&payment.Payment{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
