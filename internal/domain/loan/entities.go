package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRequest is a borrower's request for and record of a cash advance.
// Records are never deleted; they remain as loan history. Persisted state
// values keep the original Spanish labels used by the product.
type LoanRequest struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loan_requests_loan_id" json:"loan_id"`
	BorrowerID string `gorm:"size:128;index:idx_loan_requests_borrower" json:"borrower_id"`

	Principal decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	TermDays  int             `gorm:"column:term_days" json:"term_days"`

	RequestedAt time.Time `gorm:"column:requested_at;index" json:"requested_at"`
	DueAt       time.Time `gorm:"column:due_at" json:"due_at"`

	// Pricing computed at creation (and again at renewal).
	Interest     decimal.Decimal `gorm:"type:decimal(18,2)" json:"interest"`
	GuaranteeFee decimal.Decimal `gorm:"column:guarantee_fee;type:decimal(18,2)" json:"guarantee_fee"`
	SignatureFee decimal.Decimal `gorm:"column:signature_fee;type:decimal(18,2)" json:"signature_fee"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount"`
	TotalPayable decimal.Decimal `gorm:"column:total_payable;type:decimal(18,2)" json:"total_payable"`

	// Set by the collections process, zero until then.
	LateFee       decimal.Decimal `gorm:"column:late_fee;type:decimal(18,2);default:0" json:"late_fee"`
	CollectionFee decimal.Decimal `gorm:"column:collection_fee;type:decimal(18,2);default:0" json:"collection_fee"`

	State      State      `gorm:"type:varchar(32);default:'Solicitud Enviada'" json:"state"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	DeniedAt   *time.Time `gorm:"column:denied_at" json:"denied_at,omitempty"`

	// Lineage only: the loan this record was renewed from, never ownership.
	RenewalOf string `gorm:"column:renewal_of;size:32" json:"renewal_of,omitempty"`

	StateUpdatedAt time.Time `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// AmountOwed is the nominal payoff plus collections charges.
func (l *LoanRequest) AmountOwed() decimal.Decimal {
	return l.TotalPayable.Add(l.LateFee).Add(l.CollectionFee)
}
