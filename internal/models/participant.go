package models

// Participant represents a person referenced by split bills
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
