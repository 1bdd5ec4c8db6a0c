package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/flashbot/pkg/models"
	"github.com/go-co-op/gocron"
)

// DefaultNotificationHour is the hour of day (UTC) the daily due-card
// check runs at when no hour is configured
const DefaultNotificationHour = 9

// Notifier interface for sending review reminders
type Notifier interface {
	SendDueReminder(chatID int64, count int) error
}

// UserSource lists the owners eligible for notifications
type UserSource interface {
	UsersForNotification(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// DueCounter counts an owner's currently due cards
type DueCounter interface {
	CountDue(ctx context.Context, userID int64, now time.Time) (int, error)
}

// Scheduler runs the daily due-card notification job
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     UserSource
	cards     DueCounter
	hour      int
	now       func() time.Time
}

// New creates a new scheduler instance. hour is the hour of day (0-23,
// UTC) at which the daily check runs.
func New(notifier Notifier, users UserSource, cards DueCounter, hour int) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = DefaultNotificationHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		users:     users,
		cards:     cards,
		hour:      hour,
		now:       time.Now,
	}
}

// Start begins running the daily check in the background
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(func() {
		if err := s.RunCheck(context.Background()); err != nil {
			log.Printf("Error running due-card check: %v", err)
		}
	})
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunCheck enumerates every owner with a registered notification chat
// and sends a reminder to those with due cards. Per-user failures are
// logged and skipped so one broken chat doesn't starve the rest.
func (s *Scheduler) RunCheck(ctx context.Context) error {
	users, err := s.users.UsersForNotification(ctx)
	if err != nil {
		return fmt.Errorf("failed to get users for notification: %w", err)
	}

	now := s.now()
	for _, user := range users {
		count, err := s.cards.CountDue(ctx, user.ID, now)
		if err != nil {
			log.Printf("Error counting due cards for user %d: %v", user.ID, err)
			continue
		}
		if count == 0 {
			continue
		}

		if err := s.notifier.SendDueReminder(user.TelegramChatID.Int64, count); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
		}
	}

	return nil
}

// RunManualCheck forces a check for a specific user
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.TelegramChatID.Valid || !user.NotificationEnabled {
		return nil
	}

	count, err := s.cards.CountDue(ctx, userID, s.now())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	return s.notifier.SendDueReminder(user.TelegramChatID.Int64, count)
}
