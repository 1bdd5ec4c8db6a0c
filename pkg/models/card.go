package models

import "time"

// Scheduling state assigned to a freshly created card
const (
	DefaultEaseFactor = 2.5
	DefaultInterval   = 1
)

// Card represents a single flashcard together with its scheduling state
type Card struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"` // Owner of the card
	Question   string    `json:"question" db:"question"`
	Answer     string    `json:"answer" db:"answer"`
	CardType   string    `json:"card_type" db:"card_type"` // Presentation variant, e.g. "basic" or "cloze"
	EaseFactor float64   `json:"ease_factor" db:"ease_factor"` // Interval growth multiplier, never below 1.3
	Interval   int       `json:"interval" db:"interval"`       // Days until the next review, never below 1
	DueDate    time.Time `json:"due_date" db:"due_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsNew reports whether the card is still at the default scheduling
// state. The classification is derived, not stored: a card that was
// forgotten its way back to exactly (2.5, 1) counts as new again.
func (c *Card) IsNew() bool {
	return c.Interval == DefaultInterval && c.EaseFactor == DefaultEaseFactor
}
