package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs the evaluator for every borrower with an open loan on a
// fixed interval, so delinquency marking does not depend on user traffic.
type Sweeper struct {
	uc       *Usecase
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(uc *Usecase, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{uc: uc, interval: interval, log: log}
}

// Run blocks until ctx is done, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep evaluates every open borrower once. Per-borrower failures are
// logged and skipped; the pass is idempotent so nothing is lost.
func (s *Sweeper) Sweep(ctx context.Context) {
	ids, err := s.uc.repo.ListOpenBorrowerIDs(ctx)
	if err != nil {
		s.log.Error("sweep: listing open borrowers failed", zap.Error(err))
		return
	}
	var marked, renewed int
	for _, borrowerID := range ids {
		out, err := s.uc.Evaluate(ctx, borrowerID)
		if err != nil {
			s.log.Error("sweep: evaluation failed",
				zap.String("borrower_id", borrowerID), zap.Error(err))
			continue
		}
		if out.MarkedDelinquent {
			marked++
		}
		if out.Renewal != nil {
			renewed++
		}
	}
	s.log.Info("sweep complete",
		zap.Int("borrowers", len(ids)), zap.Int("marked_delinquent", marked), zap.Int("renewed", renewed))
}
