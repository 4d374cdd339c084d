package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sacco-backend/internal/adapter/events"
	"sacco-backend/internal/adapter/gateway/paystack"
	httpadp "sacco-backend/internal/adapter/http"
	appmw "sacco-backend/internal/adapter/middleware"
	"sacco-backend/internal/adapter/repository/mysql"
	"sacco-backend/internal/config"
	"sacco-backend/internal/infrastructure/cache"
	"sacco-backend/internal/infrastructure/db"
	"sacco-backend/internal/logger"
	"sacco-backend/internal/metrics"
	"sacco-backend/internal/usecase/approval"
	"sacco-backend/internal/usecase/dashboard"
	"sacco-backend/internal/usecase/loan"
	"sacco-backend/internal/usecase/member"
	"sacco-backend/internal/usecase/payment"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until an interrupt; it returns instead of
// exiting so every deferred close runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lg, logCloser, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(lg)

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	defer rdb.Close()
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("mysql handle: %w", err)
	}

	m := metrics.New()
	pub, err := events.New(events.Options{
		Driver:       cfg.EventsDriver,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		Logger:       lg,
	})
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	publisher := m.WrapPublisher(pub)
	defer publisher.Close()

	// repositories
	loanRepo := mysql.NewLoanRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	// use cases
	loanUC := loan.NewUsecase(loanRepo, tx, publisher, cfg.LoanAnnualRate)
	approvalUC := approval.NewUsecase(tx, publisher)
	paymentUC := payment.NewUsecase(paymentRepo, paystack.New(cfg.PaystackBaseURL, cfg.PaystackSecretKey), publisher)
	memberUC := member.NewUsecase(userRepo, tx)
	dashboardUC := dashboard.NewUsecase(loanRepo, paymentRepo, userRepo,
		cache.NewJSONCache(rdb, "sacco"), cfg.StatsCacheTTL())

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:    true,
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogError:     true,
			HandleError:  true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				level := slog.LevelInfo
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				lg.LogAttrs(c.Request().Context(), level, "request",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("request_id", v.RequestID),
				)
				return nil
			},
		}),
		m.Middleware(),
	)

	health := httpadp.NewHandler().
		WithCheck("mysql", sqlDB.PingContext).
		WithCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

	httpadp.Register(e, httpadp.Routes{
		Health:      health,
		Loans:       httpadp.NewLoanHandler(loanUC),
		Approvals:   httpadp.NewApprovalHandler(approvalUC),
		Payments:    httpadp.NewPaymentHandler(paymentUC),
		Members:     httpadp.NewMemberHandler(memberUC, dashboardUC),
		Metrics:     m.Handler(),
		Auth:        appmw.Auth([]byte(cfg.JWTSecret), cfg.JWTIssuer, memberUC),
		Admin:       appmw.RequireAdmin(),
		Idempotency: appmw.Idempotency(rdb, cfg.IdempotencyTTL()),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		lg.Info("listening", "addr", addr, "events", cfg.EventsDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	default:
		return nil
	}
}
