package engine

import (
	"math"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// Epsilon is the rounding tolerance for all money comparisons (one cent).
// Equality checks and threshold filters use it so that floating residue is
// never surfaced as a phantom amount.
const Epsilon = 0.01

// RoundCents rounds an amount to two decimal places
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// mean returns the arithmetic mean of values, 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation of values
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// monthKey formats a date as its YYYY-MM grouping key
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// amounts extracts the amount series from an expense list
func amounts(expenses []models.ExpenseRecord) []float64 {
	out := make([]float64, len(expenses))
	for i, e := range expenses {
		out[i] = e.Amount
	}
	return out
}

// totalAmount sums the amounts of an expense list
func totalAmount(expenses []models.ExpenseRecord) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// clamp bounds v to the [lo, hi] interval
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
