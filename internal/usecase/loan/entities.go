package loan

import (
	"time"

	domain "credimonto-backend/internal/domain/loan"
	"credimonto-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	BorrowerID string  `json:"borrower_id"`
	Principal  float64 `json:"principal"`
	TermDays   int     `json:"term_days"`
}

// LoanDTO is the wire shape of a loan request. Amounts are plain numbers;
// decimals stay inside the domain.
type LoanDTO struct {
	LoanID        string     `json:"loan_id"`
	BorrowerID    string     `json:"borrower_id"`
	Principal     float64    `json:"principal"`
	TermDays      int        `json:"term_days"`
	RequestedAt   time.Time  `json:"requested_at"`
	DueAt         time.Time  `json:"due_at"`
	Interest      float64    `json:"interest"`
	GuaranteeFee  float64    `json:"guarantee_fee"`
	SignatureFee  float64    `json:"signature_fee"`
	Discount      float64    `json:"discount"`
	TotalPayable  float64    `json:"total_payable"`
	LateFee       float64    `json:"late_fee"`
	CollectionFee float64    `json:"collection_fee"`
	AmountOwed    float64    `json:"amount_owed"`
	State         string     `json:"state"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	DeniedAt      *time.Time `json:"denied_at,omitempty"`
	RenewalOf     string     `json:"renewal_of,omitempty"`
}

type QuoteDTO struct {
	Principal    float64 `json:"principal"`
	TermDays     int     `json:"term_days"`
	Interest     float64 `json:"interest"`
	GuaranteeFee float64 `json:"guarantee_fee"`
	SignatureFee float64 `json:"signature_fee"`
	Discount     float64 `json:"discount"`
	TotalPayable float64 `json:"total_payable"`
}

// ExtensionQuoteDTO mirrors the "more time" dialog: each component shown
// rounded up to the nearest 100, total from the raw sum.
type ExtensionQuoteDTO struct {
	LoanID       string  `json:"loan_id"`
	Interest     float64 `json:"interest"`
	GuaranteeFee float64 `json:"guarantee_fee"`
	SignatureFee float64 `json:"signature_fee"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

func f(d decimal.Decimal) float64 { v, _ := d.Float64(); return v }

func ToDTO(l *domain.LoanRequest) LoanDTO {
	return LoanDTO{
		LoanID:        l.LoanID,
		BorrowerID:    l.BorrowerID,
		Principal:     f(l.Principal),
		TermDays:      l.TermDays,
		RequestedAt:   l.RequestedAt,
		DueAt:         l.DueAt,
		Interest:      f(l.Interest),
		GuaranteeFee:  f(l.GuaranteeFee),
		SignatureFee:  f(l.SignatureFee),
		Discount:      f(l.Discount),
		TotalPayable:  f(l.TotalPayable),
		LateFee:       f(l.LateFee),
		CollectionFee: f(l.CollectionFee),
		AmountOwed:    f(l.AmountOwed()),
		State:         string(l.State),
		ApprovedAt:    l.ApprovedAt,
		DeniedAt:      l.DeniedAt,
		RenewalOf:     l.RenewalOf,
	}
}

func toQuoteDTO(b pricing.Breakdown) QuoteDTO {
	return QuoteDTO{
		Principal:    f(b.Principal),
		TermDays:     b.TermDays,
		Interest:     f(b.Interest),
		GuaranteeFee: f(b.GuaranteeFee),
		SignatureFee: f(b.SignatureFee),
		Discount:     f(b.Discount),
		TotalPayable: f(b.TotalPayable),
	}
}
