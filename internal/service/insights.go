package service

import (
	"fmt"
	"time"

	"github.com/finwise/finance-service/internal/engine"
	"github.com/finwise/finance-service/internal/models"
)

// InsightReport runs the full analytics suite over the current expense
// snapshot. The snapshot is normalized to the reporting currency up front so
// the engine never performs a rate lookup. Balance and expected income are
// derived from the stored records; a caller-supplied balance overrides the
// derived one when non-nil.
func (s *Service) InsightReport(balanceOverride *float64, now time.Time) (*models.InsightReport, error) {
	expenses, err := s.store.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	snapshot, err := s.normalizer.NormalizeExpenses(expenses)
	if err != nil {
		return nil, err
	}

	incomes, err := s.store.ListIncomes()
	if err != nil {
		return nil, fmt.Errorf("failed to load incomes: %w", err)
	}

	balance, expectedIncome, err := s.cashPosition(snapshot, incomes, now)
	if err != nil {
		return nil, err
	}
	if balanceOverride != nil {
		balance = *balanceOverride
	}

	report := engine.BuildInsightReport(snapshot, balance, expectedIncome, now)
	s.log.Debugf("Insight report built over %d expenses", len(snapshot))
	return report, nil
}

// cashPosition derives the current balance (received income minus spend) and
// the expected recurring monthly income from the stored records
func (s *Service) cashPosition(expenses []models.ExpenseRecord, incomes []models.IncomeRecord, now time.Time) (balance, expectedIncome float64, err error) {
	for _, in := range incomes {
		amount, convErr := s.normalizer.Convert(in.Amount, in.Currency, in.Date)
		if convErr != nil {
			return 0, 0, fmt.Errorf("failed to normalize income %s: %w", in.ID, convErr)
		}
		if in.Status == models.IncomeStatusReceived {
			balance += amount
		}
		if in.Recurrence == models.RecurrenceMonthly && !in.Date.After(now.AddDate(0, 1, 0)) {
			expectedIncome += amount
		}
	}
	for _, e := range expenses {
		balance -= e.Amount
	}
	return engine.RoundCents(balance), engine.RoundCents(expectedIncome), nil
}
