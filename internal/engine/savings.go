package engine

import (
	"fmt"
	"sort"

	"github.com/finwise/finance-service/internal/models"
)

// Savings finder thresholds
const (
	SavingsMinRecords  = 20
	maxOpportunities   = 5
	frequentTxnCount   = 15
	concentrationShare = 0.2
)

// subscriptionWatchList names categories prone to forgotten recurring charges
var subscriptionWatchList = []string{"Entertainment", "Subscriptions", "Software", "Streaming"}

// FindSavingsOpportunities ranks categories by potential reduction and
// returns at most five recommendations in insertion order: heavy categories
// first, then frequent-small-charge categories, then the subscription watch
// list. Fewer than 20 records is a valid empty result.
func FindSavingsOpportunities(expenses []models.ExpenseRecord) []models.SavingsOpportunity {
	if len(expenses) < SavingsMinRecords {
		return nil
	}

	total := totalAmount(expenses)
	if total == 0 {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range expenses {
		sums[e.Category] += e.Amount
		counts[e.Category]++
	}

	ranked := make([]string, 0, len(sums))
	for category := range sums {
		ranked = append(ranked, category)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if sums[ranked[i]] != sums[ranked[j]] {
			return sums[ranked[i]] > sums[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > maxOpportunities {
		ranked = ranked[:maxOpportunities]
	}

	globalAvg := total / float64(len(expenses))

	var opportunities []models.SavingsOpportunity
	for _, category := range ranked {
		spend := sums[category]
		if spend > total*concentrationShare {
			opportunities = append(opportunities, models.SavingsOpportunity{
				Category:        category,
				CurrentSpend:    RoundCents(spend),
				PotentialSaving: RoundCents(spend * 0.15),
				Recommendation:  fmt.Sprintf("%s is %.0f%% of your spending; trimming 15%% would free up %.2f", category, spend/total*100, spend*0.15),
				Priority:        models.PriorityHigh,
			})
		}
		if counts[category] > frequentTxnCount && spend/float64(counts[category]) < globalAvg {
			opportunities = append(opportunities, models.SavingsOpportunity{
				Category:        category,
				CurrentSpend:    RoundCents(spend),
				PotentialSaving: RoundCents(spend * 0.20),
				Recommendation:  fmt.Sprintf("%s has many small charges; reviewing recurring payments could save %.2f", category, spend*0.20),
				Priority:        models.PriorityMedium,
			})
		}
	}

	// Subscription-prone categories are flagged regardless of rank.
	for _, category := range subscriptionWatchList {
		spend := sums[category]
		if spend <= 0 {
			continue
		}
		opportunities = append(opportunities, models.SavingsOpportunity{
			Category:        category,
			CurrentSpend:    RoundCents(spend),
			PotentialSaving: RoundCents(spend * 0.25),
			Recommendation:  fmt.Sprintf("Audit your %s subscriptions; cancelling unused ones could save %.2f", category, spend*0.25),
			Priority:        models.PriorityMedium,
		})
	}

	if len(opportunities) > maxOpportunities {
		opportunities = opportunities[:maxOpportunities]
	}
	return opportunities
}
