package loan

import (
	"context"
	"time"
)

// StateChange carries the optional fields written alongside a transition.
// At, when set, becomes the new StateUpdatedAt; callers pass it so the
// stamp comes from the injected clock.
type StateChange struct {
	At         time.Time
	ApprovedAt *time.Time
	DeniedAt   *time.Time
}

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	Save(ctx context.Context, l *LoanRequest) error

	GetByLoanID(ctx context.Context, loanID string) (*LoanRequest, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*LoanRequest, error)

	// GetCurrentByBorrowerID returns the record with the greatest
	// RequestedAt for the borrower, whatever its state.
	GetCurrentByBorrowerID(ctx context.Context, borrowerID string) (*LoanRequest, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]LoanRequest, error)

	// GetByRenewalOf returns the successor synthesized for the given origin,
	// or ErrNotFound. Renewal runs it under the origin's row lock so two
	// evaluations cannot both create a successor.
	GetByRenewalOf(ctx context.Context, loanID string) (*LoanRequest, error)

	// ListActiveByBorrowerID returns every loan in the active state subset.
	// More than one element is a data-integrity violation the caller should
	// surface, not auto-correct.
	ListActiveByBorrowerID(ctx context.Context, borrowerID string) ([]LoanRequest, error)

	// UpdateStateIf transitions loanID from -> to only when the record is
	// still in the expected state at write time; otherwise ErrStaleState.
	UpdateStateIf(ctx context.Context, loanID string, from, to State, change StateChange) error

	// ListAll feeds the administrative table; empty filter means every state.
	ListAll(ctx context.Context, filter State) ([]LoanRequest, error)

	// ListOpenBorrowerIDs feeds the reconciliation sweep: borrowers whose
	// current loan could still change state.
	ListOpenBorrowerIDs(ctx context.Context) ([]string, error)
}
