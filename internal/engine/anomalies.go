package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/finwise/finance-service/internal/models"
)

// Data floors for anomaly detection
const (
	AnomalyMinRecords         = 20
	AnomalyCategoryMinRecords = 5
	anomalyWindowDays         = 30
)

// DetectAnomalies flags expenses from the trailing 30 days whose amount is a
// statistical outlier within their own category. A category needs at least
// five historical records to be eligible; thinner categories are skipped
// entirely to avoid spurious alerts. Results are sorted by severity, high
// before medium.
func DetectAnomalies(expenses []models.ExpenseRecord, now time.Time) []models.Anomaly {
	if len(expenses) < AnomalyMinRecords {
		return nil
	}

	byCategory := make(map[string][]models.ExpenseRecord)
	for _, e := range expenses {
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	cutoff := now.AddDate(0, 0, -anomalyWindowDays)
	var anomalies []models.Anomaly
	for _, category := range categories {
		history := byCategory[category]
		if len(history) < AnomalyCategoryMinRecords {
			continue
		}

		values := amounts(history)
		m := mean(values)
		sd := stddev(values)
		if sd == 0 {
			continue
		}

		for _, e := range history {
			if e.Date.Before(cutoff) || e.Date.After(now) {
				continue
			}
			if e.Amount <= m+2*sd {
				continue
			}

			severity := models.SeverityMedium
			if e.Amount > m+3*sd {
				severity = models.SeverityHigh
			}
			pctAbove := (e.Amount/m - 1) * 100
			anomalies = append(anomalies, models.Anomaly{
				Expense:       e,
				Severity:      severity,
				Reason:        fmt.Sprintf("%.0f%% above your typical %s expense of %.2f", pctAbove, e.Category, m),
				TypicalAmount: RoundCents(m),
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return severityRank(anomalies[i].Severity) > severityRank(anomalies[j].Severity)
	})
	return anomalies
}

func severityRank(severity string) int {
	switch severity {
	case models.SeverityHigh:
		return 3
	case models.SeverityMedium:
		return 2
	default:
		return 1
	}
}
