package spaced_repetition

import (
	"time"

	"github.com/example/flashbot/pkg/models"
)

// SM2 implements the simplified SM-2 variant used to schedule card reviews
type SM2 struct {
	// Added to the ease factor after a successful recall
	EaseBonus float64
	// Subtracted from the ease factor after a failed recall
	EasePenalty float64
	// Минимальный фактор лёгкости
	MinEaseFactor float64
	// Interval a card falls back to after a failed recall, in days
	ResetInterval int
}

// NewSM2 создает новый экземпляр SM2 с настройками по умолчанию
func NewSM2() *SM2 {
	return &SM2{
		EaseBonus:     0.1,
		EasePenalty:   0.2,
		MinEaseFactor: 1.3,
		ResetInterval: 1,
	}
}

// Schedule is the next scheduling state of a card
type Schedule struct {
	EaseFactor float64
	Interval   int // Days until the next review
	DueDate    time.Time
}

// Next computes a card's next scheduling state from its current one.
// Pure function: the same inputs always produce the same Schedule.
// Inputs below the invariant floors (ease factor 1.3, interval 1) are
// clamped up before computing rather than rejected.
func (sm *SM2) Next(easeFactor float64, interval int, remembered bool, now time.Time) Schedule {
	if easeFactor < sm.MinEaseFactor {
		easeFactor = sm.MinEaseFactor
	}
	if interval < 1 {
		interval = 1
	}

	var next Schedule
	if remembered {
		// Интервал растет мультипликативно, дробная часть отбрасывается
		next.Interval = int(float64(interval) * easeFactor)
		if next.Interval < 1 {
			next.Interval = 1
		}
		next.EaseFactor = easeFactor + sm.EaseBonus
	} else {
		next.Interval = sm.ResetInterval
		next.EaseFactor = easeFactor - sm.EasePenalty
		if next.EaseFactor < sm.MinEaseFactor {
			next.EaseFactor = sm.MinEaseFactor
		}
	}

	next.DueDate = now.AddDate(0, 0, next.Interval)
	return next
}

// InitialSchedule returns the scheduling state of a card that has never
// been reviewed: immediately due, default ease factor and interval.
func (sm *SM2) InitialSchedule(now time.Time) Schedule {
	return Schedule{
		EaseFactor: models.DefaultEaseFactor,
		Interval:   models.DefaultInterval,
		DueDate:    now,
	}
}
