package models

// Settlement represents a single directed payment that clears shared-bill debt.
// Settlements are recomputed from the active bills on every request and are
// never persisted.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
