package uow

import (
	"context"

	"credimonto-backend/internal/domain/loan"
)

type Repos struct {
	Loans loan.Repository
}

// UnitOfWork scopes repository work to one transaction so reconciliation
// and administrative transitions stay safe under concurrent access.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.LoanRequest) error) error
}
