package loanmock

import (
	"context"

	domain "credimonto-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. Fill in
// the function fields a test needs; unfilled ones fail safe.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.LoanRequest) error
	SaveFn                   func(ctx context.Context, l *domain.LoanRequest) error
	GetByLoanIDFn            func(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	GetByLoanIDForUpdateFn   func(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	GetCurrentByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.LoanRequest, error)
	GetByRenewalOfFn         func(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	ListByBorrowerIDFn       func(ctx context.Context, borrowerID string) ([]domain.LoanRequest, error)
	ListActiveByBorrowerIDFn func(ctx context.Context, borrowerID string) ([]domain.LoanRequest, error)
	UpdateStateIfFn          func(ctx context.Context, loanID string, from, to domain.State, change domain.StateChange) error
	ListAllFn                func(ctx context.Context, filter domain.State) ([]domain.LoanRequest, error)
	ListOpenBorrowerIDsFn    func(ctx context.Context) ([]string, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetCurrentByBorrowerID(ctx context.Context, borrowerID string) (*domain.LoanRequest, error) {
	if m.GetCurrentByBorrowerIDFn != nil {
		return m.GetCurrentByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByRenewalOf(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	if m.GetByRenewalOfFn != nil {
		return m.GetByRenewalOfFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.LoanRequest, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListActiveByBorrowerID(ctx context.Context, borrowerID string) ([]domain.LoanRequest, error) {
	if m.ListActiveByBorrowerIDFn != nil {
		return m.ListActiveByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) UpdateStateIf(ctx context.Context, loanID string, from, to domain.State, change domain.StateChange) error {
	if m.UpdateStateIfFn != nil {
		return m.UpdateStateIfFn(ctx, loanID, from, to, change)
	}
	return nil
}

func (m *Repo) ListAll(ctx context.Context, filter domain.State) ([]domain.LoanRequest, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, filter)
	}
	return nil, nil
}

func (m *Repo) ListOpenBorrowerIDs(ctx context.Context) ([]string, error) {
	if m.ListOpenBorrowerIDsFn != nil {
		return m.ListOpenBorrowerIDsFn(ctx)
	}
	return nil, nil
}
