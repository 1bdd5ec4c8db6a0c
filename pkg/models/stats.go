package models

// ReviewStats aggregates per-owner card counts shown during a review session
type ReviewStats struct {
	DueToday   int `json:"due_today"`   // Cards with due_date <= now
	NewCards   int `json:"new_cards"`   // Cards still at the default scheduling state
	TotalCards int `json:"total_cards"` // All of the owner's cards
}
