package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/finwise/finance-service/internal/engine"
	"github.com/finwise/finance-service/internal/models"
)

// Validation runs at the boundary: the engine assumes boundary-validated
// input and does not re-check it mid-algorithm.

// validateName checks that a display name is not empty or whitespace
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// validateAmount checks that a money amount is non-negative
func validateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %.2f", amount)
	}
	return nil
}

// validateIncomeFields checks the status and recurrence enumerations
func validateIncomeFields(status, recurrence string) error {
	switch status {
	case models.IncomeStatusReceived, models.IncomeStatusScheduled:
	default:
		return fmt.Errorf("invalid income status %q", status)
	}
	switch recurrence {
	case models.RecurrenceOneTime, models.RecurrenceWeekly, models.RecurrenceBiweekly,
		models.RecurrenceMonthly, models.RecurrenceQuarterly, models.RecurrenceYearly:
	default:
		return fmt.Errorf("invalid income recurrence %q", recurrence)
	}
	return nil
}

// validateSplitBill checks a bill before persistence. Custom splits must
// cover exactly the bill's participants and sum to the total within one
// cent; equal splits must not carry a custom mapping.
func validateSplitBill(b *models.SplitBill) error {
	if b.TotalAmount <= 0 {
		return fmt.Errorf("bill total must be positive, got %.2f", b.TotalAmount)
	}
	if b.PaidBy == "" {
		return fmt.Errorf("bill payer is required")
	}
	if len(b.Participants) == 0 {
		return fmt.Errorf("bill must have at least one participant")
	}

	seen := make(map[string]bool, len(b.Participants))
	for _, pid := range b.Participants {
		if pid == "" {
			return fmt.Errorf("participant id cannot be empty")
		}
		if seen[pid] {
			return fmt.Errorf("duplicate participant %s", pid)
		}
		seen[pid] = true
	}

	switch b.SplitType {
	case models.SplitTypeEqual:
		if len(b.CustomAmounts) > 0 {
			return fmt.Errorf("equal split must not carry custom amounts")
		}
	case models.SplitTypeCustom:
		if len(b.CustomAmounts) != len(b.Participants) {
			return fmt.Errorf("custom split must cover every participant")
		}
		var sum float64
		for pid, amount := range b.CustomAmounts {
			if !seen[pid] {
				return fmt.Errorf("custom amount for unknown participant %s", pid)
			}
			if amount < 0 {
				return fmt.Errorf("custom amount for %s must be non-negative", pid)
			}
			sum += amount
		}
		if math.Abs(sum-b.TotalAmount) > engine.Epsilon {
			return fmt.Errorf("custom amounts sum to %.2f, expected %.2f", sum, b.TotalAmount)
		}
	default:
		return fmt.Errorf("invalid split type %q", b.SplitType)
	}
	return nil
}

// validateMonth checks a YYYY-MM plan key
func validateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	return nil
}

// nextOccurrence advances a recurring income's event date by one recurrence
// step
func nextOccurrence(date time.Time, recurrence string) (time.Time, error) {
	switch recurrence {
	case models.RecurrenceWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.RecurrenceBiweekly:
		return date.AddDate(0, 0, 14), nil
	case models.RecurrenceMonthly:
		return date.AddDate(0, 1, 0), nil
	case models.RecurrenceQuarterly:
		return date.AddDate(0, 3, 0), nil
	case models.RecurrenceYearly:
		return date.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("recurrence %q does not repeat", recurrence)
	}
}
