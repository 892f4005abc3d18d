// Package reconcile is the delinquency and renewal evaluator: an
// idempotent pass over a borrower's loans that marks overdue credits,
// synthesizes renewal successors and derives the figures the borrower sees.
// It runs on every current-loan read and from the periodic sweep; a pass
// that changes nothing is the normal case.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/domain/uow"
	"credimonto-backend/internal/notify"
	"credimonto-backend/internal/pricing"
	loanuc "credimonto-backend/internal/usecase/loan"
	"credimonto-backend/pkg/clock"
	"credimonto-backend/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// renewalTermDays is fixed regardless of the original term.
const renewalTermDays = 30

// renewalRequestOffset keeps the successor strictly newer than its origin
// without colliding with genuinely new requests.
const renewalRequestOffset = 5 * time.Minute

// Outcome carries everything a single evaluation pass derived. Display
// values are computed before any write, so they stay correct for the
// session even when persistence fails.
type Outcome struct {
	Current          *domain.LoanRequest `json:"current,omitempty"`
	DaysOverdue      int                 `json:"days_overdue"`
	MarkedDelinquent bool                `json:"marked_delinquent"`
	Renewal          *domain.LoanRequest `json:"renewal,omitempty"`
	AmountDueToday   decimal.Decimal     `json:"amount_due_today"`
	Eligible         bool                `json:"eligible"`
	ExtensionOpen    bool                `json:"extension_open"`
}

type Usecase struct {
	repo     domain.Repository
	uow      uow.UnitOfWork
	clk      clock.Clock
	notifier notify.Notifier
	log      *zap.Logger
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, clk clock.Clock, n notify.Notifier, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, uow: tx, clk: clk, notifier: n, log: log}
}

// DaysOverdue floors the overdue span to whole days, never negative.
func DaysOverdue(dueAt, now time.Time) int {
	d := now.Sub(dueAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func elapsedDays(requestedAt, now time.Time) int {
	d := now.Sub(requestedAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Evaluate runs one reconciliation pass for a borrower.
func (u *Usecase) Evaluate(ctx context.Context, borrowerID string) (*Outcome, error) {
	current, err := u.repo.GetCurrentByBorrowerID(ctx, borrowerID)
	if errors.Is(err, domain.ErrNotFound) {
		return &Outcome{Eligible: true, AmountDueToday: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	now := u.clk.Now()
	out := &Outcome{
		Current:        current,
		Eligible:       loanuc.EligibleForNewLoan(current, now),
		ExtensionOpen:  loanuc.ExtensionOpen(current, now),
		AmountDueToday: decimal.Zero,
	}

	if current.State != domain.StatePaid {
		out.DaysOverdue = DaysOverdue(current.DueAt, now)
		out.AmountDueToday = pricing.QuoteAsOf(
			current.Principal,
			elapsedDays(current.RequestedAt, now),
			current.LateFee,
			current.CollectionFee,
		).TotalPayable
	}

	switch {
	case out.DaysOverdue > 0 && delinquencyApplies(current.State):
		u.markDelinquent(ctx, current, now, out)
	case current.State == domain.StateRenewed:
		u.renew(ctx, current, now, out)
	}

	return out, nil
}

// delinquencyApplies mirrors the lifecycle table: only disbursed money goes
// into mora, and an already delinquent record may be re-marked as a no-op.
func delinquencyApplies(s domain.State) bool {
	return s == domain.StateDisbursed || s == domain.StateDelinquent
}

func (u *Usecase) markDelinquent(ctx context.Context, current *domain.LoanRequest, now time.Time, out *Outcome) {
	if current.State == domain.StateDelinquent {
		// Already marked; re-applying is a no-op.
		return
	}
	err := u.repo.UpdateStateIf(ctx, current.LoanID, current.State, domain.StateDelinquent, domain.StateChange{At: now})
	switch {
	case err == nil:
		current.State = domain.StateDelinquent
		out.MarkedDelinquent = true
		u.notifier.Notify(ctx, current.BorrowerID, notify.KindWarning,
			fmt.Sprintf("tienes %d día(s) de mora, comunícate a las líneas de atención", out.DaysOverdue))
	case errors.Is(err, domain.ErrStaleState):
		// Someone moved the record first; the next pass sees the new state.
		u.log.Info("delinquency mark lost the race",
			zap.String("loan_id", current.LoanID), zap.String("state", string(current.State)))
	default:
		// Display values stand; the next pass retries the same write.
		u.log.Error("delinquency mark failed", zap.String("loan_id", current.LoanID), zap.Error(err))
	}
}

// renew synthesizes the disbursed successor of a Novado record. The origin
// is left untouched in Novado: lineage is preserved, the successor becomes
// current by having the latest requested_at. The origin never leaves
// Novado, so the only reliable duplicate guard is the renewal_of lookup
// under the origin's row lock: a second evaluation that read the same
// stale current finds the successor already persisted and backs off.
func (u *Usecase) renew(ctx context.Context, origin *domain.LoanRequest, now time.Time, out *Outcome) {
	var successor *domain.LoanRequest
	err := u.uow.WithinLoanTx(ctx, origin.LoanID, func(r uow.Repos, locked *domain.LoanRequest) error {
		if locked.State != domain.StateRenewed {
			return domain.ErrStaleState
		}
		switch _, err := r.Loans.GetByRenewalOf(ctx, locked.LoanID); {
		case err == nil:
			return domain.ErrStaleState
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		successor = synthesizeRenewal(locked, now)
		return r.Loans.Create(ctx, successor)
	})
	switch {
	case err == nil:
		out.Renewal = successor
		u.notifier.Notify(ctx, origin.BorrowerID, notify.KindSuccess,
			"solicitud novada: se ha creado una copia de la solicitud actual")
	case errors.Is(err, domain.ErrStaleState):
		u.log.Info("renewal already handled elsewhere", zap.String("loan_id", origin.LoanID))
	default:
		u.log.Error("renewal synthesis failed", zap.String("loan_id", origin.LoanID), zap.Error(err))
	}
}

func synthesizeRenewal(origin *domain.LoanRequest, now time.Time) *domain.LoanRequest {
	b := pricing.Quote(origin.Principal, renewalTermDays)
	requestedAt := origin.RequestedAt.Add(renewalRequestOffset)
	return &domain.LoanRequest{
		LoanID:         id.NewLoanID(now),
		BorrowerID:     origin.BorrowerID,
		Principal:      origin.Principal,
		TermDays:       renewalTermDays,
		RequestedAt:    requestedAt,
		DueAt:          origin.DueAt.AddDate(0, 0, renewalTermDays),
		Interest:       b.Interest,
		GuaranteeFee:   b.GuaranteeFee,
		SignatureFee:   b.SignatureFee,
		Discount:       b.Discount,
		TotalPayable:   b.TotalPayable,
		LateFee:        origin.LateFee,
		CollectionFee:  origin.CollectionFee,
		State:          domain.StateDisbursed,
		RenewalOf:      origin.LoanID,
		StateUpdatedAt: now,
	}
}
