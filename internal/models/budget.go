package models

// BudgetBucketType identifies one of the four budget buckets
type BudgetBucketType string

// Budget bucket types
const (
	BucketNeeds   BudgetBucketType = "NEEDS"
	BucketWants   BudgetBucketType = "WANTS"
	BucketSavings BudgetBucketType = "SAVINGS"
	BucketDebt    BudgetBucketType = "DEBT"
)

// BucketTypes lists the bucket types in allocation order
var BucketTypes = []BudgetBucketType{BucketNeeds, BucketWants, BucketSavings, BucketDebt}

// BucketStatus classifies how much of a bucket's plan has been consumed
type BucketStatus string

// Bucket status values
const (
	StatusUnder     BucketStatus = "UNDER"
	StatusNearLimit BucketStatus = "NEAR_LIMIT"
	StatusOver      BucketStatus = "OVER"
)

// CategoryBudget tracks planned and spent amounts for a sub-category
type CategoryBudget struct {
	Planned float64 `json:"planned"`
	Spent   float64 `json:"spent"`
}

// BudgetBucket holds one bucket of a monthly plan
type BudgetBucket struct {
	Type       BudgetBucketType           `json:"type"`
	Planned    float64                    `json:"planned"`
	Spent      float64                    `json:"spent"`
	Remaining  float64                    `json:"remaining"`
	Status     BucketStatus               `json:"status"`
	Categories map[string]*CategoryBudget `json:"categories"`
}

// MonthlyBudgetPlan represents one month's income allocation. Plans are keyed
// by month and append-only: a past month is never recomputed.
type MonthlyBudgetPlan struct {
	Month       string                             `json:"month"` // Format: YYYY-MM
	Currency    string                             `json:"currency"`
	TotalIncome float64                            `json:"total_income"`
	Buckets     map[BudgetBucketType]*BudgetBucket `json:"buckets"`
}

// BucketPercentMap maps bucket types to policy percentages (0-100)
type BucketPercentMap map[BudgetBucketType]float64

// DefaultBucketPolicy returns the 50/30/15/5 allocation policy
func DefaultBucketPolicy() BucketPercentMap {
	return BucketPercentMap{
		BucketNeeds:   50,
		BucketWants:   30,
		BucketSavings: 15,
		BucketDebt:    5,
	}
}
