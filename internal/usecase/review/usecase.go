// Package review holds the administrative side of the loan lifecycle:
// listing requests and moving them along the legal transition edges.
package review

import (
	"context"
	"errors"
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/domain/uow"
	loanuc "credimonto-backend/internal/usecase/loan"
	"credimonto-backend/pkg/clock"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	clk  clock.Clock
	log  *zap.Logger
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, clk clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, uow: tx, clk: clk, log: log}
}

// List feeds the administrative table; an empty filter returns everything.
func (u *Usecase) List(ctx context.Context, filter domain.State) ([]loanuc.LoanDTO, error) {
	ls, err := u.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]loanuc.LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, loanuc.ToDTO(&ls[i]))
	}
	return out, nil
}

// TransitionState applies an administrative state change under a row lock,
// rejecting edges the lifecycle does not allow instead of accepting any
// write. Entering Aprobada or Negada stamps the matching timestamp.
func (u *Usecase) TransitionState(ctx context.Context, loanID string, next domain.State) (*loanuc.LoanDTO, error) {
	var dto *loanuc.LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.LoanRequest) error {
		newState, err := domain.Transition(l.State, next)
		if err != nil {
			return err
		}
		now := u.clk.Now()
		switch newState {
		case domain.StateApproved:
			l.ApprovedAt = &now
		case domain.StateDenied:
			l.DeniedAt = &now
		}
		l.State = newState
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		d := loanuc.ToDTO(l)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan state changed",
		zap.String("loan_id", loanID), zap.String("state", string(next)))
	return dto, nil
}

// SetCollectionFees records the late and collection charges the collections
// process assessed; the core only ever adds them to the amount due.
func (u *Usecase) SetCollectionFees(ctx context.Context, loanID string, lateFee, collectionFee float64) (*loanuc.LoanDTO, error) {
	late := decimal.NewFromFloat(lateFee)
	coll := decimal.NewFromFloat(collectionFee)
	if late.IsNegative() || coll.IsNegative() {
		return nil, errors.New("invalid input: fees must not be negative")
	}
	var dto *loanuc.LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.LoanRequest) error {
		if l.State.Terminal() {
			return domain.ErrInvalidTransition
		}
		l.LateFee = late
		l.CollectionFee = coll
		l.UpdatedAt = time.Now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		d := loanuc.ToDTO(l)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
