package models

import "time"

// Split type values
const (
	SplitTypeEqual  = "equal"
	SplitTypeCustom = "custom"
)

// SplitBill represents a shared bill paid by one participant on behalf of a group
type SplitBill struct {
	ID            string             `json:"id"`
	Description   string             `json:"description"`
	TotalAmount   float64            `json:"total_amount"`
	Currency      string             `json:"currency"`
	PaidBy        string             `json:"paid_by"`
	Participants  []string           `json:"participants"`
	SplitType     string             `json:"split_type"`
	CustomAmounts map[string]float64 `json:"custom_amounts,omitempty"`
	Settled       bool               `json:"settled"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Share returns the amount owed by the given participant for this bill.
// Equal splits derive the share from the participant count; custom splits
// read the per-participant mapping.
func (b *SplitBill) Share(participantID string) float64 {
	if b.SplitType == SplitTypeCustom {
		return b.CustomAmounts[participantID]
	}
	if len(b.Participants) == 0 {
		return 0
	}
	return b.TotalAmount / float64(len(b.Participants))
}
