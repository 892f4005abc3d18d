// Package pricing derives the fee breakdown of a credit from its principal
// and term. All functions are total: out-of-range input produces
// mathematically consistent output, never an error.
package pricing

import "github.com/shopspring/decimal"

// Fixed constants of the single loan product.
var (
	// Simple daily rate, 0.35 annual over a 360-day year.
	dailyRate = decimal.NewFromFloat(0.35).Div(decimal.NewFromInt(360))
	// Guarantee ("aval") fee as a share of principal.
	guaranteeRate = decimal.NewFromFloat(0.2222)
	// Flat electronic signature ("firma") fee, COP.
	signatureFee = decimal.NewFromInt(155000)
	// Discount factor is 0.83 at the 7-day term and moves 0.01 per day.
	// Far from 7 days it exceeds 1.0 or goes negative; kept verbatim for
	// compatibility with the deployed product.
	discountBase = decimal.NewFromFloat(0.83)
	discountStep = decimal.NewFromFloat(0.01)

	hundred = decimal.NewFromInt(100)
)

type Breakdown struct {
	Principal    decimal.Decimal
	TermDays     int
	Interest     decimal.Decimal
	GuaranteeFee decimal.Decimal
	SignatureFee decimal.Decimal
	Discount     decimal.Decimal
	TotalPayable decimal.Decimal
}

// Quote prices a credit over its nominal term. Callers supply principal > 0
// and termDays in [7, 30]; neither is enforced here.
func Quote(principal decimal.Decimal, termDays int) Breakdown {
	b := components(principal, termDays)
	raw := principal.Add(b.Interest).Add(b.GuaranteeFee).Add(b.SignatureFee).Sub(b.Discount)
	b.TotalPayable = RoundUp100(raw)
	return b
}

// QuoteAsOf prices "amount due if paid today": interest and discount are
// recomputed over the days elapsed since the request (floored at 0), and
// collections charges are added before rounding.
func QuoteAsOf(principal decimal.Decimal, elapsedDays int, lateFee, collectionFee decimal.Decimal) Breakdown {
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	b := components(principal, elapsedDays)
	raw := principal.Add(b.Interest).Add(b.GuaranteeFee).Add(b.SignatureFee).Sub(b.Discount).
		Add(lateFee).Add(collectionFee)
	b.TotalPayable = RoundUp100(raw)
	return b
}

func components(principal decimal.Decimal, days int) Breakdown {
	d := decimal.NewFromInt(int64(days))
	factor := discountBase.Add(decimal.NewFromInt(int64(7 - days)).Mul(discountStep))
	return Breakdown{
		Principal:    principal,
		TermDays:     days,
		Interest:     principal.Mul(dailyRate).Mul(d),
		GuaranteeFee: principal.Mul(guaranteeRate),
		SignatureFee: signatureFee,
		Discount:     signatureFee.Mul(factor),
	}
}

// RoundUp100 rounds x up to the nearest multiple of 100.
func RoundUp100(x decimal.Decimal) decimal.Decimal {
	return x.Div(hundred).Ceil().Mul(hundred)
}
