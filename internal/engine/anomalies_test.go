package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwise/finance-service/internal/models"
)

// diningHistory builds 24 Dining records alternating 15 and 25 dated well
// before the detection window, giving a mean near 20 with a stddev near 5.
func diningHistory() []models.ExpenseRecord {
	var out []models.ExpenseRecord
	start := day(2025, 3, 1)
	for i := 0; i < 24; i++ {
		amount := 15.0
		if i%2 == 0 {
			amount = 25.0
		}
		out = append(out, expense("Dining", amount, start.AddDate(0, 0, i)))
	}
	return out
}

func TestDetectAnomalies(t *testing.T) {
	now := day(2025, 7, 15)

	t.Run("should return nothing below the overall record floor", func(t *testing.T) {
		expenses := expenseSeries("Dining", 20, day(2025, 7, 1), AnomalyMinRecords-1)
		assert.Empty(t, DetectAnomalies(expenses, now))
	})

	t.Run("should skip categories with thin history", func(t *testing.T) {
		// 20 records overall, but the spiky category has only 4.
		expenses := expenseSeries("Groceries", 50, day(2025, 3, 1), 16)
		expenses = append(expenses, expenseSeries("Taxi", 10, day(2025, 7, 10), 3)...)
		expenses = append(expenses, expense("Taxi", 500, day(2025, 7, 14)))

		assert.Empty(t, DetectAnomalies(expenses, now))
	})

	t.Run("should flag a recent outlier as medium severity", func(t *testing.T) {
		expenses := append(diningHistory(), expense("Dining", 35, day(2025, 7, 10)))

		anomalies := DetectAnomalies(expenses, now)
		require.Len(t, anomalies, 1)
		assert.Equal(t, models.SeverityMedium, anomalies[0].Severity)
		assert.Equal(t, 35.0, anomalies[0].Expense.Amount)
		assert.InDelta(t, 20.6, anomalies[0].TypicalAmount, 0.1)
		assert.Contains(t, anomalies[0].Reason, "Dining")
	})

	t.Run("should escalate extreme outliers to high severity", func(t *testing.T) {
		expenses := append(diningHistory(), expense("Dining", 60, day(2025, 7, 10)))

		anomalies := DetectAnomalies(expenses, now)
		require.Len(t, anomalies, 1)
		assert.Equal(t, models.SeverityHigh, anomalies[0].Severity)
	})

	t.Run("should ignore outliers older than 30 days", func(t *testing.T) {
		expenses := append(diningHistory(), expense("Dining", 60, day(2025, 5, 1)))
		assert.Empty(t, DetectAnomalies(expenses, now))
	})

	t.Run("should order high severity before medium", func(t *testing.T) {
		// Dining carries the medium outlier; Taxi the extreme one.
		expenses := append(diningHistory(), expense("Dining", 35, day(2025, 7, 8)))
		for i := 0; i < 12; i++ {
			amount := 8.0
			if i%2 == 0 {
				amount = 12.0
			}
			expenses = append(expenses, expense("Taxi", amount, day(2025, 4, 1).AddDate(0, 0, i)))
		}
		expenses = append(expenses, expense("Taxi", 30, day(2025, 7, 12)))

		anomalies := DetectAnomalies(expenses, now)
		require.Len(t, anomalies, 2)
		assert.Equal(t, models.SeverityHigh, anomalies[0].Severity)
		assert.Equal(t, "Taxi", anomalies[0].Expense.Category)
		assert.Equal(t, models.SeverityMedium, anomalies[1].Severity)
		assert.Equal(t, "Dining", anomalies[1].Expense.Category)
	})

	t.Run("should skip zero-variance categories", func(t *testing.T) {
		expenses := expenseSeries("Rent", 1200, day(2025, 3, 1), 25)
		expenses = append(expenses, expense("Rent", 1200, day(2025, 7, 10)))
		assert.Empty(t, DetectAnomalies(expenses, now))
	})
}
