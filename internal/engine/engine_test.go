package engine

import (
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// Fixture helpers shared by the engine tests.

func expense(category string, amount float64, date time.Time) models.ExpenseRecord {
	return models.ExpenseRecord{
		ID:       category + date.Format("20060102") + "x",
		Amount:   amount,
		Currency: "USD",
		Category: category,
		Date:     date,
	}
}

// expenseSeries generates count expenses of the same category and amount,
// one per day starting at the given date.
func expenseSeries(category string, amount float64, start time.Time, count int) []models.ExpenseRecord {
	out := make([]models.ExpenseRecord, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, expense(category, amount, start.AddDate(0, 0, i)))
	}
	return out
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func equalBill(id, paidBy string, total float64, participants ...string) models.SplitBill {
	return models.SplitBill{
		ID:           id,
		TotalAmount:  total,
		Currency:     "USD",
		PaidBy:       paidBy,
		Participants: participants,
		SplitType:    models.SplitTypeEqual,
	}
}

func people(ids ...string) []models.Participant {
	out := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Participant{ID: id, Name: id})
	}
	return out
}
