package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "credimonto-backend/internal/adapter/http"
	mw "credimonto-backend/internal/adapter/middleware"
	"credimonto-backend/internal/adapter/repository/mysql"
	"credimonto-backend/internal/config"
	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/infrastructure/cache"
	"credimonto-backend/internal/infrastructure/db"
	"credimonto-backend/internal/notify"
	loanuc "credimonto-backend/internal/usecase/loan"
	"credimonto-backend/internal/usecase/reconcile"
	"credimonto-backend/internal/usecase/review"
	"credimonto-backend/pkg/clock"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql connect failed", zap.Error(err))
	}
	if err := gdb.AutoMigrate(&domain.LoanRequest{}); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}

	clk := clock.Real{}
	notifier := notify.NewZapNotifier(logger.Named("notify"))

	repo := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	loans := loanuc.NewUsecase(repo, clk, notifier, logger.Named("loan"),
		cfg.LoanMinPrincipal, cfg.LoanMaxPrincipal)
	rec := reconcile.NewUsecase(repo, tx, clk, notifier, logger.Named("reconcile"))
	admin := review.NewUsecase(repo, tx, clk, logger.Named("review"))

	// Delinquency and renewal must not depend on borrowers opening the app.
	sweeper := reconcile.NewSweeper(rec, cfg.SweepInterval, logger.Named("sweep"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger.Named("idemp")))

	h := httpadp.NewHealthHandler()
	lh := httpadp.NewLoanHandler(loans, rec)
	ah := httpadp.NewAdminHandler(admin)

	e.GET("/health", h.Health)

	e.POST("/loans", lh.CreateLoan)
	e.GET("/loans/quote", lh.Quote)
	e.GET("/loans/:loan_id", lh.Get)
	e.GET("/borrowers/:borrower_id/loans", lh.History)
	e.GET("/borrowers/:borrower_id/loans/current", lh.Current)
	e.GET("/borrowers/:borrower_id/loans/current/extension", lh.ExtensionQuote)

	e.GET("/admin/loans", ah.ListLoans)
	e.PATCH("/admin/loans/:loan_id/state", ah.UpdateState)
	e.PATCH("/admin/loans/:loan_id/fees", ah.SetFees)

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
