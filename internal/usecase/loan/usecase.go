package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/notify"
	"credimonto-backend/internal/pricing"
	"credimonto-backend/pkg/clock"
	"credimonto-backend/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MinTermDays = 7
	MaxTermDays = 30

	// Two lunar months, the cool-off before a borrower whose last request
	// was denied may file a new one.
	EligibilityWindow = 60 * 24 * time.Hour

	// Extension may only be requested in the week before the due date.
	ExtensionWindow = 7 * 24 * time.Hour
)

type Usecase struct {
	repo     domain.Repository
	clk      clock.Clock
	notifier notify.Notifier
	log      *zap.Logger

	minPrincipal decimal.Decimal
	maxPrincipal decimal.Decimal
}

func NewUsecase(r domain.Repository, clk clock.Clock, n notify.Notifier, log *zap.Logger, minPrincipal, maxPrincipal int64) *Usecase {
	return &Usecase{
		repo:         r,
		clk:          clk,
		notifier:     n,
		log:          log,
		minPrincipal: decimal.NewFromInt(minPrincipal),
		maxPrincipal: decimal.NewFromInt(maxPrincipal),
	}
}

// EligibleForNewLoan reports whether a borrower whose latest request is the
// given record may file a new one: more than the cool-off window since it
// was requested. A borrower with no history is always eligible.
func EligibleForNewLoan(current *domain.LoanRequest, now time.Time) bool {
	if current == nil {
		return true
	}
	return now.Sub(current.RequestedAt) > EligibilityWindow
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.BorrowerID == "" {
		return nil, errors.New("invalid input: borrower_id required")
	}
	if in.TermDays < MinTermDays || in.TermDays > MaxTermDays {
		return nil, fmt.Errorf("invalid input: term_days must be in [%d, %d]", MinTermDays, MaxTermDays)
	}
	principal := decimal.NewFromFloat(in.Principal)
	if principal.LessThan(u.minPrincipal) || principal.GreaterThan(u.maxPrincipal) {
		return nil, fmt.Errorf("invalid input: principal must be between %s and %s", u.minPrincipal, u.maxPrincipal)
	}

	now := u.clk.Now()

	// One active loan per borrower, enforced here at the repository boundary.
	actives, err := u.repo.ListActiveByBorrowerID(ctx, in.BorrowerID)
	if err != nil {
		return nil, err
	}
	if len(actives) > 1 {
		// Data-integrity violation: surface, never auto-correct.
		u.log.Warn("borrower holds multiple active loans",
			zap.String("borrower_id", in.BorrowerID), zap.Int("count", len(actives)))
	}
	if len(actives) > 0 {
		return nil, domain.ErrActiveLoanExists
	}

	current, err := u.repo.GetCurrentByBorrowerID(ctx, in.BorrowerID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		current = nil
	case err != nil:
		return nil, err
	}
	if current != nil {
		// Delinquent or renewed records are outside the active subset but
		// still represent money on the street.
		if !current.State.Terminal() {
			return nil, domain.ErrActiveLoanExists
		}
		if current.State == domain.StateDenied && !EligibleForNewLoan(current, now) {
			return nil, domain.ErrNotEligible
		}
	}

	b := pricing.Quote(principal, in.TermDays)
	l := &domain.LoanRequest{
		LoanID:         id.NewLoanID(now),
		BorrowerID:     in.BorrowerID,
		Principal:      principal,
		TermDays:       in.TermDays,
		RequestedAt:    now,
		DueAt:          now.AddDate(0, 0, in.TermDays),
		Interest:       b.Interest,
		GuaranteeFee:   b.GuaranteeFee,
		SignatureFee:   b.SignatureFee,
		Discount:       b.Discount,
		TotalPayable:   b.TotalPayable,
		LateFee:        decimal.Zero,
		CollectionFee:  decimal.Zero,
		State:          domain.StateRequested,
		StateUpdatedAt: now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, in.BorrowerID, notify.KindSuccess,
		"solicitud enviada, te estaremos contactando para darte una respuesta")

	dto := ToDTO(l)
	return &dto, nil
}

// Quote prices a prospective credit without touching storage.
func (u *Usecase) Quote(principalAmount float64, termDays int) QuoteDTO {
	return toQuoteDTO(pricing.Quote(decimal.NewFromFloat(principalAmount), termDays))
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(l)
	return &dto, nil
}

// History returns every request of the borrower, newest first.
func (u *Usecase) History(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, ToDTO(&ls[i]))
	}
	return out, nil
}

// ExtensionOpen reports whether the "more time" action is available: only
// while disbursed, and only in the week immediately before the due date.
func ExtensionOpen(l *domain.LoanRequest, now time.Time) bool {
	if l == nil || l.State != domain.StateDisbursed {
		return false
	}
	return !now.Before(l.DueAt.Add(-ExtensionWindow)) && now.Before(l.DueAt)
}

// ExtensionQuote surfaces the cost of a 30-day extension: the original
// nominal fees, not recomputed. The borrower pays out-of-band and an
// administrator then moves the record to Novado.
func (u *Usecase) ExtensionQuote(ctx context.Context, borrowerID string) (*ExtensionQuoteDTO, error) {
	current, err := u.repo.GetCurrentByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if !ExtensionOpen(current, u.clk.Now()) {
		return nil, domain.ErrExtensionClosed
	}

	raw := current.Interest.Add(current.GuaranteeFee).Add(current.SignatureFee).Sub(current.Discount)
	return &ExtensionQuoteDTO{
		LoanID:       current.LoanID,
		Interest:     f(pricing.RoundUp100(current.Interest)),
		GuaranteeFee: f(pricing.RoundUp100(current.GuaranteeFee)),
		SignatureFee: f(pricing.RoundUp100(current.SignatureFee)),
		Discount:     f(pricing.RoundUp100(current.Discount)),
		Total:        f(pricing.RoundUp100(raw)),
	}, nil
}
