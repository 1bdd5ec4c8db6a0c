package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/flashbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// CardRepository handles database operations for cards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new repository instance over the given
// connection
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a new card. Zero-valued scheduling fields are filled
// with the defaults for a never-reviewed card: immediately due,
// ease factor 2.5, interval 1.
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.CardType == "" {
		card.CardType = "basic"
	}
	if card.EaseFactor == 0 {
		card.EaseFactor = models.DefaultEaseFactor
	}
	if card.Interval == 0 {
		card.Interval = models.DefaultInterval
	}
	if card.DueDate.IsZero() {
		card.DueDate = time.Now()
	}

	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO cards (user_id, question, answer, card_type, ease_factor, "interval", due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`
		return r.db.QueryRowContext(ctx, query,
			card.UserID,
			card.Question,
			card.Answer,
			card.CardType,
			card.EaseFactor,
			card.Interval,
			card.DueDate,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	}

	// Для SQLite (без RETURNING)
	query := `
		INSERT INTO cards (user_id, question, answer, card_type, ease_factor, "interval", due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		card.UserID,
		card.Question,
		card.Answer,
		card.CardType,
		card.EaseFactor,
		card.Interval,
		card.DueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	card.ID = id

	return nil
}

// CreateBatch inserts a batch of cards in one transaction. Used by the
// bulk-save and import paths.
func (r *CardRepository) CreateBatch(ctx context.Context, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO cards (user_id, question, answer, card_type, ease_factor, "interval", due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	now := time.Now()
	for i := range cards {
		card := &cards[i]
		if card.CardType == "" {
			card.CardType = "basic"
		}
		if card.EaseFactor == 0 {
			card.EaseFactor = models.DefaultEaseFactor
		}
		if card.Interval == 0 {
			card.Interval = models.DefaultInterval
		}
		if card.DueDate.IsZero() {
			card.DueDate = now
		}

		_, err := tx.ExecContext(ctx, query,
			card.UserID,
			card.Question,
			card.Answer,
			card.CardType,
			card.EaseFactor,
			card.Interval,
			card.DueDate,
		)
		if err != nil {
			return fmt.Errorf("failed to create card %d of %d: %w", i+1, len(cards), err)
		}
	}

	return tx.Commit()
}

// GetByID returns the owner's card, or nil if the (card, owner) pair
// doesn't match any row
func (r *CardRepository) GetByID(ctx context.Context, cardID, userID int64) (*models.Card, error) {
	var card models.Card
	query := r.db.Rebind(`SELECT * FROM cards WHERE id = ? AND user_id = ?`)
	err := r.db.GetContext(ctx, &card, query, cardID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

// FindDueCard returns the owner's due card with the earliest due date,
// or nil if nothing is due. Ties are broken by ID so the selection is
// stable.
func (r *CardRepository) FindDueCard(ctx context.Context, userID int64, now time.Time) (*models.Card, error) {
	var card models.Card
	query := r.db.Rebind(`
		SELECT * FROM cards
		WHERE user_id = ? AND due_date <= ?
		ORDER BY due_date ASC, id ASC
		LIMIT 1
	`)
	err := r.db.GetContext(ctx, &card, query, userID, now)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find due card: %w", err)
	}
	return &card, nil
}

// FindRandomCard returns a uniformly selected card among all of the
// owner's cards, due or not, or nil if the owner has no cards.
// A random offset over the ID index avoids the full-table sort of
// ORDER BY RANDOM().
func (r *CardRepository) FindRandomCard(ctx context.Context, userID int64) (*models.Card, error) {
	total, err := r.CountTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	offset := rnd.Intn(total)

	var card models.Card
	query := r.db.Rebind(`
		SELECT * FROM cards
		WHERE user_id = ?
		ORDER BY id ASC
		LIMIT 1 OFFSET ?
	`)
	err = r.db.GetContext(ctx, &card, query, userID, offset)
	if err == sql.ErrNoRows {
		// A card was deleted between the count and the select
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find random card: %w", err)
	}
	return &card, nil
}

// CountDue returns the number of the owner's cards with due_date <= now
func (r *CardRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM cards WHERE user_id = ? AND due_date <= ?`)
	if err := r.db.GetContext(ctx, &count, query, userID, now); err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return count, nil
}

// CountNew returns the number of the owner's cards still at the default
// scheduling state. The exact equality on the default ease factor is
// deliberate and matches models.Card.IsNew.
func (r *CardRepository) CountNew(ctx context.Context, userID int64) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM cards WHERE user_id = ? AND "interval" = ? AND ease_factor = ?`)
	if err := r.db.GetContext(ctx, &count, query, userID, models.DefaultInterval, models.DefaultEaseFactor); err != nil {
		return 0, fmt.Errorf("failed to count new cards: %w", err)
	}
	return count, nil
}

// CountTotal returns the number of all of the owner's cards
func (r *CardRepository) CountTotal(ctx context.Context, userID int64) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM cards WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// Stats aggregates the owner's due, new and total counts
func (r *CardRepository) Stats(ctx context.Context, userID int64, now time.Time) (*models.ReviewStats, error) {
	due, err := r.CountDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	newCards, err := r.CountNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := r.CountTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewStats{DueToday: due, NewCards: newCards, TotalCards: total}, nil
}

// UpdateSchedule writes a card's next scheduling state, scoped to the
// owner. When the (card, owner) pair matches no row the update is a
// silent no-op: a stale or cross-owner submission changes nothing.
func (r *CardRepository) UpdateSchedule(ctx context.Context, cardID, userID int64, easeFactor float64, interval int, dueDate time.Time) error {
	query := r.db.Rebind(`
		UPDATE cards SET
			ease_factor = ?,
			"interval" = ?,
			due_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`)
	_, err := r.db.ExecContext(ctx, query, easeFactor, interval, dueDate, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to update card schedule: %w", err)
	}
	return nil
}

// UpdateContent modifies a card's question and answer, scoped to the
// owner. Scheduling state is untouched.
func (r *CardRepository) UpdateContent(ctx context.Context, cardID, userID int64, question, answer string) error {
	query := r.db.Rebind(`
		UPDATE cards SET
			question = ?,
			answer = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`)
	_, err := r.db.ExecContext(ctx, query, question, answer, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

// ListByOwner returns all of the owner's cards ordered by due date
func (r *CardRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Card, error) {
	var cards []models.Card
	query := r.db.Rebind(`SELECT * FROM cards WHERE user_id = ? ORDER BY due_date ASC, id ASC`)
	if err := r.db.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// Delete removes a card, scoped to the owner
func (r *CardRepository) Delete(ctx context.Context, cardID, userID int64) error {
	query := r.db.Rebind(`DELETE FROM cards WHERE id = ? AND user_id = ?`)
	_, err := r.db.ExecContext(ctx, query, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}
