package engine

import (
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// Cashflow forecast parameters
const (
	CashflowMinRecords = 30
	forecastDays       = 30
	burnWindowDays     = 30
	runwayDays         = 7
)

// Forecast warning strings
const (
	WarningDeficit    = "predicted deficit"
	WarningLowBalance = "low balance, less than one week of runway"
)

// ForecastCashflow projects the balance forward 30 days from the average
// daily burn of the trailing 30 days of history. Expected income is credited
// once, on the first day-of-month 1 inside the window; multiple income events
// are deliberately not modeled. Fewer than 30 records yields an empty
// forecast.
func ForecastCashflow(expenses []models.ExpenseRecord, currentBalance, expectedIncome float64, now time.Time) []models.CashflowDay {
	if len(expenses) < CashflowMinRecords {
		return nil
	}

	cutoff := now.AddDate(0, 0, -burnWindowDays)
	var recentSpend float64
	for _, e := range expenses {
		if e.Date.After(cutoff) && !e.Date.After(now) {
			recentSpend += e.Amount
		}
	}
	dailySpend := recentSpend / burnWindowDays

	forecast := make([]models.CashflowDay, 0, forecastDays)
	balance := currentBalance
	incomeApplied := false
	for i := 1; i <= forecastDays; i++ {
		date := now.AddDate(0, 0, i)
		if !incomeApplied && date.Day() == 1 {
			balance += expectedIncome
			incomeApplied = true
		}
		balance -= dailySpend

		day := models.CashflowDay{Date: date, Balance: RoundCents(balance)}
		switch {
		case balance < 0:
			day.Warning = WarningDeficit
		case balance < dailySpend*runwayDays:
			day.Warning = WarningLowBalance
		}
		forecast = append(forecast, day)
	}
	return forecast
}
