package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// AllocateBudget creates a monthly plan by splitting the income into buckets
// according to the policy percentages. The policy must cover all four buckets
// and sum to 100 within rounding tolerance.
func AllocateBudget(income float64, currency, month string, policy models.BucketPercentMap) (*models.MonthlyBudgetPlan, error) {
	if income < 0 {
		return nil, fmt.Errorf("income must be non-negative, got %.2f", income)
	}
	if policy == nil {
		policy = models.DefaultBucketPolicy()
	}

	var totalPct float64
	for _, bt := range models.BucketTypes {
		pct, ok := policy[bt]
		if !ok {
			return nil, fmt.Errorf("policy is missing bucket %s", bt)
		}
		if pct < 0 {
			return nil, fmt.Errorf("policy percent for %s must be non-negative", bt)
		}
		totalPct += pct
	}
	if math.Abs(totalPct-100) > 0.01 {
		return nil, fmt.Errorf("policy percentages must sum to 100, got %.2f", totalPct)
	}

	plan := &models.MonthlyBudgetPlan{
		Month:       month,
		Currency:    currency,
		TotalIncome: RoundCents(income),
		Buckets:     make(map[models.BudgetBucketType]*models.BudgetBucket, len(models.BucketTypes)),
	}
	for _, bt := range models.BucketTypes {
		plan.Buckets[bt] = &models.BudgetBucket{
			Type:       bt,
			Planned:    RoundCents(income * policy[bt] / 100),
			Spent:      0,
			Remaining:  RoundCents(income * policy[bt] / 100),
			Status:     models.StatusUnder,
			Categories: make(map[string]*models.CategoryBudget),
		}
	}
	return plan, nil
}

// LogTransaction applies a spend against a bucket and category and returns the
// updated plan. The input plan is not mutated; the returned plan is a deep
// copy with the transaction applied.
//
// Transactions against NEEDS or WANTS also return a mirrored ExpenseRecord so
// the expense ledger sees budget-sourced consumption. SAVINGS and DEBT are
// transfers rather than consumption and are not mirrored.
func LogTransaction(plan *models.MonthlyBudgetPlan, bucket models.BudgetBucketType, category string, amount float64, description string, date time.Time) (*models.MonthlyBudgetPlan, *models.ExpenseRecord, error) {
	if plan == nil {
		return nil, nil, fmt.Errorf("plan is required")
	}
	if amount < 0 {
		return nil, nil, fmt.Errorf("amount must be non-negative, got %.2f", amount)
	}
	updated := clonePlan(plan)
	b, ok := updated.Buckets[bucket]
	if !ok {
		return nil, nil, fmt.Errorf("unknown bucket %s", bucket)
	}

	b.Spent = RoundCents(b.Spent + amount)
	b.Remaining = RoundCents(b.Planned - b.Spent)
	if _, ok := b.Categories[category]; !ok {
		b.Categories[category] = &models.CategoryBudget{Planned: 0}
	}
	b.Categories[category].Spent = RoundCents(b.Categories[category].Spent + amount)
	b.Status = bucketStatus(b.Planned, b.Spent)

	var mirrored *models.ExpenseRecord
	if bucket == models.BucketNeeds || bucket == models.BucketWants {
		mirrored = &models.ExpenseRecord{
			Amount:      RoundCents(amount),
			Currency:    plan.Currency,
			Category:    category,
			Description: description,
			Date:        date,
		}
	}
	return updated, mirrored, nil
}

// bucketStatus classifies a bucket from its spent/planned ratio. A bucket with
// nothing planned and nothing spent is UNDER; spending against a zero plan is
// immediately OVER.
func bucketStatus(planned, spent float64) models.BucketStatus {
	if planned <= Epsilon {
		if spent <= Epsilon {
			return models.StatusUnder
		}
		return models.StatusOver
	}
	switch ratio := spent / planned; {
	case ratio >= 1.0:
		return models.StatusOver
	case ratio >= 0.8:
		return models.StatusNearLimit
	default:
		return models.StatusUnder
	}
}

// clonePlan deep-copies a plan so callers keep an untouched snapshot
func clonePlan(plan *models.MonthlyBudgetPlan) *models.MonthlyBudgetPlan {
	out := &models.MonthlyBudgetPlan{
		Month:       plan.Month,
		Currency:    plan.Currency,
		TotalIncome: plan.TotalIncome,
		Buckets:     make(map[models.BudgetBucketType]*models.BudgetBucket, len(plan.Buckets)),
	}
	for bt, b := range plan.Buckets {
		nb := &models.BudgetBucket{
			Type:       b.Type,
			Planned:    b.Planned,
			Spent:      b.Spent,
			Remaining:  b.Remaining,
			Status:     b.Status,
			Categories: make(map[string]*models.CategoryBudget, len(b.Categories)),
		}
		for name, cb := range b.Categories {
			nb.Categories[name] = &models.CategoryBudget{Planned: cb.Planned, Spent: cb.Spent}
		}
		out.Buckets[bt] = nb
	}
	return out
}
