package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/domain/uow"
)

func TestWithinLoanTx_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	l := testLoan("rosa@example.com", domain.StateRequested, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	mustCreate(t, repo, l)

	u := NewGormUoW(db)
	err := u.WithinLoanTx(context.Background(), l.LoanID, func(r uow.Repos, locked *domain.LoanRequest) error {
		if locked.LoanID != l.LoanID {
			t.Fatalf("locked wrong row: %s", locked.LoanID)
		}
		locked.State = domain.StateUnderReview
		return r.Loans.Save(context.Background(), locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx err: %v", err)
	}

	got, err := repo.GetByLoanID(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID err: %v", err)
	}
	if got.State != domain.StateUnderReview {
		t.Fatalf("state = %s, want %s", got.State, domain.StateUnderReview)
	}
}

func TestWithinLoanTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	l := testLoan("rosa@example.com", domain.StateRequested, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	mustCreate(t, repo, l)

	boom := errors.New("boom")
	u := NewGormUoW(db)
	err := u.WithinLoanTx(context.Background(), l.LoanID, func(r uow.Repos, locked *domain.LoanRequest) error {
		locked.State = domain.StateUnderReview
		if err := r.Loans.Save(context.Background(), locked); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	got, _ := repo.GetByLoanID(context.Background(), l.LoanID)
	if got.State != domain.StateRequested {
		t.Fatalf("rollback lost: state = %s", got.State)
	}
}

func TestWithinLoanTx_UnknownLoan(t *testing.T) {
	u := NewGormUoW(openTestDB(t))
	err := u.WithinLoanTx(context.Background(), "missing", func(r uow.Repos, _ *domain.LoanRequest) error {
		t.Fatal("fn must not run without a row")
		return nil
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestWithinTx_Commits(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	l := testLoan("rosa@example.com", domain.StateRequested, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	err := u.WithinTx(context.Background(), func(r uow.Repos) error {
		return r.Loans.Create(context.Background(), l)
	})
	if err != nil {
		t.Fatalf("WithinTx err: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(context.Background(), l.LoanID); err != nil {
		t.Fatalf("created loan not visible: %v", err)
	}
}
