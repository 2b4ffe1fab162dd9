package models

import "time"

// Spending pattern types
const (
	PatternWeekendSkew           = "weekend_skew"
	PatternWeekdaySkew           = "weekday_skew"
	PatternCategoryConcentration = "category_concentration"
	PatternMidMonthSkew          = "mid_month_skew"
	PatternLargeTransactions     = "large_transactions"
)

// SpendingPattern represents a recurring behavioral skew found in the
// expense history
type SpendingPattern struct {
	Type       string  `json:"type"`
	Insight    string  `json:"insight"`
	Confidence float64 `json:"confidence"`
}

// Anomaly severity values
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Anomaly flags an expense that is a statistical outlier within its category
type Anomaly struct {
	Expense       ExpenseRecord `json:"expense"`
	Severity      string        `json:"severity"`
	Reason        string        `json:"reason"`
	TypicalAmount float64       `json:"typical_amount"`
}

// Trend classifications for the monthly spend series
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// PredictiveBudget represents the extrapolated spend for next month
type PredictiveBudget struct {
	PredictedAmount float64 `json:"predicted_amount"`
	Confidence      float64 `json:"confidence"`
	Trend           string  `json:"trend"`
	BasedOnMonths   int     `json:"based_on_months"`
}

// Savings opportunity priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// SavingsOpportunity names a category with room for reduction
type SavingsOpportunity struct {
	Category        string  `json:"category"`
	CurrentSpend    float64 `json:"current_spend"`
	PotentialSaving float64 `json:"potential_saving"`
	Recommendation  string  `json:"recommendation"`
	Priority        string  `json:"priority"`
}

// CashflowDay represents the projected balance for a single future day
type CashflowDay struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
	Warning string    `json:"warning,omitempty"`
}

// InsightReport bundles the output of all analytics components computed
// against one expense snapshot
type InsightReport struct {
	Patterns   []SpendingPattern    `json:"patterns"`
	Anomalies  []Anomaly            `json:"anomalies"`
	Prediction *PredictiveBudget    `json:"prediction,omitempty"`
	Savings    []SavingsOpportunity `json:"savings"`
	Cashflow   []CashflowDay        `json:"cashflow"`
}
