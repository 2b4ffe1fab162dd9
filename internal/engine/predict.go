package engine

import (
	"sort"

	"github.com/finwise/finance-service/internal/models"
)

// Data floors for next-month prediction
const (
	PredictMinRecords = 30
	PredictMinMonths  = 2
	trailingMonths    = 3
)

// PredictNextMonth extrapolates next month's total spend from the monthly
// history. It returns nil when the history has fewer than 30 records or spans
// fewer than 2 distinct months; that is a normal no-insight outcome.
//
// The prediction is the average of the trailing three monthly totals. The
// trend compares the first third of the series against the last third with a
// 10% band; with exactly two months it defaults to stable. Confidence is one
// minus the coefficient of variation of the full series, clamped to
// [0.5, 0.95].
func PredictNextMonth(expenses []models.ExpenseRecord) *models.PredictiveBudget {
	if len(expenses) < PredictMinRecords {
		return nil
	}

	byMonth := make(map[string]float64)
	for _, e := range expenses {
		byMonth[monthKey(e.Date)] += e.Amount
	}
	if len(byMonth) < PredictMinMonths {
		return nil
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	totals := make([]float64, len(months))
	for i, month := range months {
		totals[i] = byMonth[month]
	}

	// Average of the trailing three months, or fewer if fewer exist.
	window := totals
	if len(window) > trailingMonths {
		window = window[len(window)-trailingMonths:]
	}
	predicted := mean(window)

	return &models.PredictiveBudget{
		PredictedAmount: RoundCents(predicted),
		Confidence:      confidence(totals),
		Trend:           trend(totals),
		BasedOnMonths:   len(totals),
	}
}

// trend classifies the monthly series by comparing the averages of its first
// and last thirds. Two months is too short to call a direction.
func trend(totals []float64) string {
	if len(totals) < 3 {
		return models.TrendStable
	}
	third := len(totals) / 3
	first := mean(totals[:third])
	last := mean(totals[len(totals)-third:])
	if first == 0 {
		return models.TrendStable
	}
	switch {
	case last > first*1.1:
		return models.TrendIncreasing
	case last < first*0.9:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// confidence converts series variance into a bounded confidence figure
func confidence(totals []float64) float64 {
	m := mean(totals)
	if m == 0 {
		return 0.5
	}
	cv := stddev(totals) / m
	return clamp(1-cv, 0.5, 0.95)
}
