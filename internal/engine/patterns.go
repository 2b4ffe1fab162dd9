package engine

import (
	"fmt"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// PatternMinRecords is the history floor below which pattern detection
// returns no findings.
const PatternMinRecords = 10

// DetectPatterns evaluates the expense history for recurring behavioral
// skews. Each check is independent; multiple findings may fire at once.
// Fewer than PatternMinRecords records is a valid empty result.
func DetectPatterns(expenses []models.ExpenseRecord) []models.SpendingPattern {
	if len(expenses) < PatternMinRecords {
		return nil
	}

	var patterns []models.SpendingPattern
	if p := weekendSkew(expenses); p != nil {
		patterns = append(patterns, *p)
	}
	if p := categoryConcentration(expenses); p != nil {
		patterns = append(patterns, *p)
	}
	if p := midMonthSkew(expenses); p != nil {
		patterns = append(patterns, *p)
	}
	if p := largeTransactionFrequency(expenses); p != nil {
		patterns = append(patterns, *p)
	}
	return patterns
}

// weekendSkew compares the per-transaction average on weekdays against
// weekends and fires when one side exceeds the other by more than 50%.
func weekendSkew(expenses []models.ExpenseRecord) *models.SpendingPattern {
	var weekdaySum, weekendSum float64
	var weekdayCount, weekendCount int
	for _, e := range expenses {
		switch e.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += e.Amount
			weekendCount++
		default:
			weekdaySum += e.Amount
			weekdayCount++
		}
	}
	if weekdayCount == 0 || weekendCount == 0 {
		return nil
	}

	weekdayAvg := weekdaySum / float64(weekdayCount)
	weekendAvg := weekendSum / float64(weekendCount)
	if weekdayAvg == 0 || weekendAvg == 0 {
		return nil
	}

	if weekendAvg > weekdayAvg*1.5 {
		excess := (weekendAvg/weekdayAvg - 1) * 100
		return &models.SpendingPattern{
			Type:       models.PatternWeekendSkew,
			Insight:    fmt.Sprintf("Your average weekend transaction is %.0f%% higher than on weekdays", excess),
			Confidence: 0.85,
		}
	}
	if weekdayAvg > weekendAvg*1.5 {
		excess := (weekdayAvg/weekendAvg - 1) * 100
		return &models.SpendingPattern{
			Type:       models.PatternWeekdaySkew,
			Insight:    fmt.Sprintf("Your average weekday transaction is %.0f%% higher than on weekends", excess),
			Confidence: 0.85,
		}
	}
	return nil
}

// categoryConcentration fires when a single category carries more than 40%
// of total spend.
func categoryConcentration(expenses []models.ExpenseRecord) *models.SpendingPattern {
	total := totalAmount(expenses)
	if total == 0 {
		return nil
	}

	byCategory := make(map[string]float64)
	for _, e := range expenses {
		byCategory[e.Category] += e.Amount
	}

	var topCategory string
	var topSum float64
	for category, sum := range byCategory {
		if sum > topSum || (sum == topSum && category < topCategory) {
			topCategory = category
			topSum = sum
		}
	}

	if share := topSum / total * 100; share > 40 {
		return &models.SpendingPattern{
			Type:       models.PatternCategoryConcentration,
			Insight:    fmt.Sprintf("%s accounts for %.0f%% of your total spending", topCategory, share),
			Confidence: 0.9,
		}
	}
	return nil
}

// midMonthSkew compares spend on days 1-15 against the rest of the month and
// fires when the first half exceeds the second by more than 60%.
func midMonthSkew(expenses []models.ExpenseRecord) *models.SpendingPattern {
	var firstHalf, secondHalf float64
	for _, e := range expenses {
		if e.Date.Day() <= 15 {
			firstHalf += e.Amount
		} else {
			secondHalf += e.Amount
		}
	}
	if secondHalf == 0 {
		return nil
	}

	if firstHalf > secondHalf*1.6 {
		return &models.SpendingPattern{
			Type:       models.PatternMidMonthSkew,
			Insight:    "Most of your spending happens in the first half of the month",
			Confidence: 0.8,
		}
	}
	return nil
}

// largeTransactionFrequency fires when transactions above three times the
// mean amount make up more than 10% of the history.
func largeTransactionFrequency(expenses []models.ExpenseRecord) *models.SpendingPattern {
	avg := mean(amounts(expenses))
	if avg == 0 {
		return nil
	}

	threshold := avg * 3
	var large int
	for _, e := range expenses {
		if e.Amount > threshold {
			large++
		}
	}

	if float64(large) > float64(len(expenses))*0.1 {
		return &models.SpendingPattern{
			Type:       models.PatternLargeTransactions,
			Insight:    fmt.Sprintf("%d transactions exceed 3x your average of %.2f", large, avg),
			Confidence: 0.75,
		}
	}
	return nil
}
