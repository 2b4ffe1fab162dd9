package models

import "time"

// Income status values
const (
	IncomeStatusReceived  = "received"
	IncomeStatusScheduled = "scheduled"
)

// Income recurrence values
const (
	RecurrenceOneTime   = "one-time"
	RecurrenceWeekly    = "weekly"
	RecurrenceBiweekly  = "biweekly"
	RecurrenceMonthly   = "monthly"
	RecurrenceQuarterly = "quarterly"
	RecurrenceYearly    = "yearly"
)

// IncomeRecord represents a received or scheduled income event
type IncomeRecord struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Recurrence string    `json:"recurrence"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}
