package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "credimonto-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.LoanRequest, error) {
	q := r.db.WithContext(ctx)
	// sqlite (tests) has no row locks; the whole db is the lock there.
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.LoanRequest
	res := q.Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

// GetCurrentByBorrowerID picks the most recently requested record whatever
// its state; the id column breaks same-instant ties.
func (r *LoanRepository) GetCurrentByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("requested_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) GetByRenewalOf(ctx context.Context, loanID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("renewal_of = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("requested_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListActiveByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND state IN ?", borrowerID, loanDomain.ActiveStates()).
		Order("requested_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// UpdateStateIf is the compare-and-swap behind automatic transitions: the
// write lands only if the record is still in the expected state.
func (r *LoanRepository) UpdateStateIf(ctx context.Context, loanID string, from, to loanDomain.State, change loanDomain.StateChange) error {
	ts := change.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	fields := map[string]any{
		"state":            to,
		"state_updated_at": ts,
	}
	if change.ApprovedAt != nil {
		fields["approved_at"] = *change.ApprovedAt
	}
	if change.DeniedAt != nil {
		fields["denied_at"] = *change.DeniedAt
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.LoanRequest{}).
		Where("loan_id = ? AND state = ?", loanID, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrStaleState
	}
	return nil
}

func (r *LoanRepository) ListAll(ctx context.Context, filter loanDomain.State) ([]loanDomain.LoanRequest, error) {
	q := r.db.WithContext(ctx).Order("requested_at DESC, id DESC")
	if filter != "" {
		q = q.Where("state = ?", filter)
	}
	var out []loanDomain.LoanRequest
	res := q.Find(&out)
	return out, res.Error
}

// ListOpenBorrowerIDs returns borrowers whose latest loan could still move:
// anyone holding a record outside the terminal states.
func (r *LoanRepository) ListOpenBorrowerIDs(ctx context.Context) ([]string, error) {
	var out []string
	res := r.db.WithContext(ctx).
		Model(&loanDomain.LoanRequest{}).
		Where("state NOT IN ?", []loanDomain.State{loanDomain.StatePaid, loanDomain.StateDenied}).
		Distinct().
		Pluck("borrower_id", &out)
	return out, res.Error
}
