package currency

import (
	"fmt"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// RateFunc returns the conversion factor from one currency to another on a
// given date. Implementations may be backed by a cached rate table; the
// analysis layer only ever sees a synchronous lookup.
type RateFunc func(from, to string, date time.Time) (float64, error)

// Normalizer converts amounts tagged with arbitrary currency codes into one
// reporting currency. It performs no retries and no fallbacks: a failed rate
// lookup surfaces to the caller.
type Normalizer struct {
	Base string
	Rate RateFunc
}

// NewNormalizer creates a normalizer targeting the given base currency
func NewNormalizer(base string, rate RateFunc) *Normalizer {
	return &Normalizer{Base: base, Rate: rate}
}

// Convert converts an amount from the given currency into the base currency
func (n *Normalizer) Convert(amount float64, from string, date time.Time) (float64, error) {
	if from == n.Base || from == "" {
		return amount, nil
	}
	factor, err := n.Rate(from, n.Base, date)
	if err != nil {
		return 0, fmt.Errorf("failed to get rate %s->%s: %w", from, n.Base, err)
	}
	return amount * factor, nil
}

// NormalizeExpenses returns a copy of the expense snapshot with every amount
// converted to the base currency. The input snapshot is left untouched.
func (n *Normalizer) NormalizeExpenses(expenses []models.ExpenseRecord) ([]models.ExpenseRecord, error) {
	out := make([]models.ExpenseRecord, len(expenses))
	for i, e := range expenses {
		converted, err := n.Convert(e.Amount, e.Currency, e.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize expense %s: %w", e.ID, err)
		}
		e.Amount = converted
		e.Currency = n.Base
		out[i] = e
	}
	return out, nil
}

// NormalizeBills returns a copy of the bills with totals and custom shares
// converted to the base currency, so settlement always runs over a single
// currency.
func (n *Normalizer) NormalizeBills(bills []models.SplitBill) ([]models.SplitBill, error) {
	out := make([]models.SplitBill, len(bills))
	for i, b := range bills {
		converted, err := n.Convert(b.TotalAmount, b.Currency, b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize bill %s: %w", b.ID, err)
		}
		nb := b
		nb.TotalAmount = converted
		nb.Currency = n.Base
		if b.CustomAmounts != nil {
			nb.CustomAmounts = make(map[string]float64, len(b.CustomAmounts))
			for pid, amount := range b.CustomAmounts {
				share, err := n.Convert(amount, b.Currency, b.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("failed to normalize bill %s share: %w", b.ID, err)
				}
				nb.CustomAmounts[pid] = share
			}
		}
		out[i] = nb
	}
	return out, nil
}
