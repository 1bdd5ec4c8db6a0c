package review

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashbot/internal/spaced_repetition"
	"github.com/example/flashbot/pkg/models"
)

// CardStore is the storage contract the review flow consumes
type CardStore interface {
	GetByID(ctx context.Context, cardID, userID int64) (*models.Card, error)
	FindDueCard(ctx context.Context, userID int64, now time.Time) (*models.Card, error)
	FindRandomCard(ctx context.Context, userID int64) (*models.Card, error)
	Stats(ctx context.Context, userID int64, now time.Time) (*models.ReviewStats, error)
	UpdateSchedule(ctx context.Context, cardID, userID int64, easeFactor float64, interval int, dueDate time.Time) error
}

// Service drives review sessions one card at a time: select the due
// card, take the user's outcome, reschedule, persist. It holds no
// per-session state; every call stands alone.
type Service struct {
	cards  CardStore
	engine *spaced_repetition.SM2
	now    func() time.Time
}

// NewService creates a review service over the given store
func NewService(cards CardStore) *Service {
	return &Service{
		cards:  cards,
		engine: spaced_repetition.NewSM2(),
		now:    time.Now,
	}
}

// Item is one presentable step of a review session: the card to show
// and the owner's counts at selection time
type Item struct {
	Card  models.Card        `json:"card"`
	Stats models.ReviewStats `json:"stats"`
}

// NextCard returns the owner's due card with the earliest due date
// together with current stats. A nil item means nothing is due right
// now — the normal end of a session, not an error.
func (s *Service) NextCard(ctx context.Context, userID int64) (*Item, error) {
	now := s.now()

	card, err := s.cards.FindDueCard(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select due card: %w", err)
	}
	if card == nil {
		return nil, nil
	}

	stats, err := s.cards.Stats(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}

	return &Item{Card: *card, Stats: *stats}, nil
}

// SubmitOutcome applies one review outcome to a card's scheduling
// state. The card does not have to be due: a late submission still
// counts as one real review event. Submissions for unknown cards, or
// cards owned by someone else, are dropped without an error — the
// scheduling state of other owners' cards never changes.
func (s *Service) SubmitOutcome(ctx context.Context, userID, cardID int64, outcome Outcome) error {
	if outcome != OutcomeRemembered && outcome != OutcomeForgotten {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	card, err := s.cards.GetByID(ctx, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to load card: %w", err)
	}
	if card == nil {
		return nil
	}

	next := s.engine.Next(card.EaseFactor, card.Interval, outcome.Remembered(), s.now())

	if err := s.cards.UpdateSchedule(ctx, cardID, userID, next.EaseFactor, next.Interval, next.DueDate); err != nil {
		return fmt.Errorf("failed to persist schedule: %w", err)
	}
	return nil
}

// RandomCard returns an arbitrary card of the owner for ad-hoc recall,
// outside the scheduled review flow. Nil when the owner has no cards.
func (s *Service) RandomCard(ctx context.Context, userID int64) (*models.Card, error) {
	card, err := s.cards.FindRandomCard(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select random card: %w", err)
	}
	return card, nil
}

// Stats returns the owner's current due/new/total counts
func (s *Service) Stats(ctx context.Context, userID int64) (*models.ReviewStats, error) {
	stats, err := s.cards.Stats(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}
	return stats, nil
}
