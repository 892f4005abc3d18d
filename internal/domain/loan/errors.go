package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("illegal state transition")
	ErrActiveLoanExists  = errors.New("borrower already has an active loan")
	ErrNotEligible       = errors.New("borrower not yet eligible for a new loan")
	ErrExtensionClosed   = errors.New("extension window is closed")
	// ErrStaleState signals a compare-and-swap write that found the record
	// no longer in the expected state.
	ErrStaleState = errors.New("loan state changed concurrently")
)
