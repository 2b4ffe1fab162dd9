package engine

import (
	"sync"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// BuildInsightReport runs all five analytics components against the same
// expense snapshot and bundles their output. The components are pure and do
// not depend on each other, so they run concurrently; each applies its own
// data floor and contributes an empty section when the history is too thin.
func BuildInsightReport(expenses []models.ExpenseRecord, currentBalance, expectedIncome float64, now time.Time) *models.InsightReport {
	report := &models.InsightReport{}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		report.Patterns = DetectPatterns(expenses)
	}()
	go func() {
		defer wg.Done()
		report.Anomalies = DetectAnomalies(expenses, now)
	}()
	go func() {
		defer wg.Done()
		report.Prediction = PredictNextMonth(expenses)
	}()
	go func() {
		defer wg.Done()
		report.Savings = FindSavingsOpportunities(expenses)
	}()
	go func() {
		defer wg.Done()
		report.Cashflow = ForecastCashflow(expenses, currentBalance, expectedIncome, now)
	}()
	wg.Wait()

	return report
}
