package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finwise/finance-service/internal/engine"
	"github.com/finwise/finance-service/internal/models"
)

// CreateBudgetPlan allocates a month's income into buckets and persists the
// plan. Plans are created once per month on demand; an existing month is a
// conflict, never a recompute.
func (s *Service) CreateBudgetPlan(month string, income float64, policy models.BucketPercentMap) (*models.MonthlyBudgetPlan, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	existing, err := s.store.GetPlan(month)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("plan for %s already exists", month)
	}

	plan, err := engine.AllocateBudget(income, s.normalizer.Base, month, policy)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreatePlan(plan); err != nil {
		return nil, err
	}
	s.log.Infof("Budget plan created for %s: income %.2f %s", month, plan.TotalIncome, plan.Currency)
	return plan, nil
}

// GetBudgetPlan retrieves the plan for a month
func (s *Service) GetBudgetPlan(month string) (*models.MonthlyBudgetPlan, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	plan, err := s.store.GetPlan(month)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("no plan for %s", month)
	}
	return plan, nil
}

// ListPlanMonths retrieves the months with a budget plan
func (s *Service) ListPlanMonths() ([]string, error) {
	return s.store.ListPlanMonths()
}

// LogBudgetTransaction records a spend against a bucket of the month's plan
// and persists the updated plan. NEEDS and WANTS spending is mirrored into
// the expense ledger so the analytics snapshot includes it.
func (s *Service) LogBudgetTransaction(month string, bucket models.BudgetBucketType, category string, amount float64, description string) (*models.MonthlyBudgetPlan, error) {
	plan, err := s.GetBudgetPlan(month)
	if err != nil {
		return nil, err
	}

	updated, mirrored, err := engine.LogTransaction(plan, bucket, category, amount, description, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePlan(updated); err != nil {
		return nil, err
	}

	if mirrored != nil {
		mirrored.ID = uuid.NewString()
		if err := s.store.CreateExpense(mirrored); err != nil {
			return nil, fmt.Errorf("failed to mirror expense: %w", err)
		}
		s.log.Debugf("Mirrored budget spend into expense %s", mirrored.ID)
	}

	s.log.Infof("Logged %.2f against %s/%s for %s (%s)", amount, bucket, category, month, updated.Buckets[bucket].Status)
	return updated, nil
}
