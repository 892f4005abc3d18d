package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/testutil/loanmock"

	"go.uber.org/zap"
)

func TestSweep_MarksEveryOverdueBorrower(t *testing.T) {
	overdue := map[string]*domain.LoanRequest{
		"a@example.com": pricedLoan(domain.StateDisbursed, fixedNow().AddDate(0, 0, -10), 7),
		"b@example.com": pricedLoan(domain.StateDisbursed, fixedNow().AddDate(0, 0, -15), 7),
	}
	overdue["b@example.com"].LoanID = "1706700000000beefcafe"

	markedLoans := map[string]bool{}
	repo := &loanmock.Repo{
		ListOpenBorrowerIDsFn: func(_ context.Context) ([]string, error) {
			return []string{"a@example.com", "b@example.com"}, nil
		},
		GetCurrentByBorrowerIDFn: func(_ context.Context, borrowerID string) (*domain.LoanRequest, error) {
			l, ok := overdue[borrowerID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return l, nil
		},
		UpdateStateIfFn: func(_ context.Context, loanID string, _, to domain.State, _ domain.StateChange) error {
			if to != domain.StateDelinquent {
				t.Fatalf("unexpected target state %s", to)
			}
			markedLoans[loanID] = true
			return nil
		},
	}
	uc, _ := newTestUsecase(repo, nil)

	NewSweeper(uc, time.Hour, zap.NewNop()).Sweep(context.Background())

	if len(markedLoans) != 2 {
		t.Fatalf("marked %d loans, want 2", len(markedLoans))
	}
}

func TestSweep_SkipsFailingBorrower(t *testing.T) {
	healthy := pricedLoan(domain.StateDisbursed, fixedNow().AddDate(0, 0, -10), 7)
	var marked bool
	repo := &loanmock.Repo{
		ListOpenBorrowerIDsFn: func(_ context.Context) ([]string, error) {
			return []string{"broken@example.com", "healthy@example.com"}, nil
		},
		GetCurrentByBorrowerIDFn: func(_ context.Context, borrowerID string) (*domain.LoanRequest, error) {
			if borrowerID == "broken@example.com" {
				return nil, errors.New("connection refused")
			}
			return healthy, nil
		},
		UpdateStateIfFn: func(_ context.Context, _ string, _, _ domain.State, _ domain.StateChange) error {
			marked = true
			return nil
		},
	}
	uc, _ := newTestUsecase(repo, nil)

	NewSweeper(uc, time.Hour, zap.NewNop()).Sweep(context.Background())

	if !marked {
		t.Fatal("healthy borrower must still be swept")
	}
}
