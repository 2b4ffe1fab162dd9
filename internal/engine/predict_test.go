package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwise/finance-service/internal/models"
)

// monthOfSpend generates count records in the given month totaling the
// given amount.
func monthOfSpend(year, month, count int, total float64) []models.ExpenseRecord {
	return expenseSeries("Misc", total/float64(count), day(year, time.Month(month), 1), count)
}

func TestPredictNextMonth(t *testing.T) {
	t.Run("should return nil below the record floor", func(t *testing.T) {
		expenses := append(monthOfSpend(2025, 5, 15, 300), monthOfSpend(2025, 6, 14, 280)...)
		assert.Nil(t, PredictNextMonth(expenses))
	})

	t.Run("should return nil with a single month of history", func(t *testing.T) {
		expenses := monthOfSpend(2025, 6, 30, 900)
		assert.Nil(t, PredictNextMonth(expenses))
	})

	t.Run("should average the trailing three months", func(t *testing.T) {
		var expenses []models.ExpenseRecord
		for i, total := range []float64{500, 100, 200, 300} {
			expenses = append(expenses, monthOfSpend(2025, 3+i, 10, total)...)
		}

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.InDelta(t, 200, prediction.PredictedAmount, Epsilon)
		assert.Equal(t, 4, prediction.BasedOnMonths)
	})

	t.Run("should classify an increasing trend", func(t *testing.T) {
		var expenses []models.ExpenseRecord
		for i, total := range []float64{100, 200, 300} {
			expenses = append(expenses, monthOfSpend(2025, 4+i, 10, total)...)
		}

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.Equal(t, models.TrendIncreasing, prediction.Trend)
	})

	t.Run("should classify a decreasing trend", func(t *testing.T) {
		var expenses []models.ExpenseRecord
		for i, total := range []float64{300, 200, 100} {
			expenses = append(expenses, monthOfSpend(2025, 4+i, 10, total)...)
		}

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.Equal(t, models.TrendDecreasing, prediction.Trend)
	})

	t.Run("should default to stable with exactly two months", func(t *testing.T) {
		expenses := append(monthOfSpend(2025, 5, 15, 100), monthOfSpend(2025, 6, 15, 900)...)

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.Equal(t, models.TrendStable, prediction.Trend)
		assert.Equal(t, 2, prediction.BasedOnMonths)
		assert.InDelta(t, 500, prediction.PredictedAmount, Epsilon)
	})

	t.Run("should cap confidence for a flat series", func(t *testing.T) {
		var expenses []models.ExpenseRecord
		for i := 0; i < 3; i++ {
			expenses = append(expenses, monthOfSpend(2025, 4+i, 10, 250)...)
		}

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.Equal(t, 0.95, prediction.Confidence)
		assert.Equal(t, models.TrendStable, prediction.Trend)
	})

	t.Run("should floor confidence for a volatile series", func(t *testing.T) {
		var expenses []models.ExpenseRecord
		for i, total := range []float64{10, 1000, 10} {
			expenses = append(expenses, monthOfSpend(2025, 4+i, 10, total)...)
		}

		prediction := PredictNextMonth(expenses)
		require.NotNil(t, prediction)
		assert.Equal(t, 0.5, prediction.Confidence)
	})
}
