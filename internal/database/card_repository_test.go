package database

import (
	"context"
	"testing"
	"time"

	"github.com/example/flashbot/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func createTestCard(t *testing.T, repo *CardRepository, card models.Card) models.Card {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &card))
	return card
}

func TestCreate_AppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	card := createTestCard(t, repo, models.Card{
		UserID:   user.ID,
		Question: "What is the Pythagorean theorem?",
		Answer:   "$a^2 + b^2 = c^2$",
	})

	got, err := repo.GetByID(context.Background(), card.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "basic", got.CardType)
	assert.Equal(t, models.DefaultEaseFactor, got.EaseFactor)
	assert.Equal(t, models.DefaultInterval, got.Interval)
	assert.False(t, got.DueDate.IsZero())
	assert.True(t, got.IsNew())
}

func TestFindDueCard_PicksEarliestDue(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q1", Answer: "a1",
		DueDate: repoNow.Add(-48 * time.Hour),
	})
	earliest := createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q2", Answer: "a2",
		DueDate: repoNow.Add(-72 * time.Hour),
	})
	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q3", Answer: "a3",
		DueDate: repoNow.Add(24 * time.Hour), // not due yet
	})

	card, err := repo.FindDueCard(context.Background(), user.ID, repoNow)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, earliest.ID, card.ID)
}

func TestFindDueCard_NothingDue(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q", Answer: "a",
		DueDate: repoNow.Add(time.Hour),
	})

	card, err := repo.FindDueCard(context.Background(), user.ID, repoNow)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestFindDueCard_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewCardRepository(db)

	createTestCard(t, repo, models.Card{
		UserID: alice.ID, Question: "q", Answer: "a",
		DueDate: repoNow.Add(-time.Hour),
	})

	card, err := repo.FindDueCard(context.Background(), bob.ID, repoNow)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	// Due and still at the default state: counts as due and new
	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q1", Answer: "a1",
		DueDate: repoNow.Add(-time.Hour),
	})
	// Due but already reviewed
	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q2", Answer: "a2",
		EaseFactor: 2.6, Interval: 2,
		DueDate: repoNow.Add(-2 * time.Hour),
	})
	// Not due and not new
	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q3", Answer: "a3",
		EaseFactor: 2.7, Interval: 5,
		DueDate: repoNow.Add(72 * time.Hour),
	})

	stats, err := repo.Stats(context.Background(), user.ID, repoNow)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DueToday)
	assert.Equal(t, 1, stats.NewCards)
	assert.Equal(t, 3, stats.TotalCards)
}

func TestStats_EmptyOwner(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	stats, err := repo.Stats(context.Background(), user.ID, repoNow)
	require.NoError(t, err)

	assert.Zero(t, stats.DueToday)
	assert.Zero(t, stats.NewCards)
	assert.Zero(t, stats.TotalCards)
}

func TestUpdateSchedule(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	card := createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q", Answer: "a",
		DueDate: repoNow,
	})

	due := repoNow.AddDate(0, 0, 2)
	err := repo.UpdateSchedule(context.Background(), card.ID, user.ID, 2.6, 2, due)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), card.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.Equal(t, 2, got.Interval)
	assert.WithinDuration(t, due, got.DueDate, time.Second)
}

func TestUpdateSchedule_WrongOwnerIsNoOp(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewCardRepository(db)

	card := createTestCard(t, repo, models.Card{
		UserID: alice.ID, Question: "q", Answer: "a",
		DueDate: repoNow,
	})

	// Bob tries to reschedule Alice's card: no error, no change
	err := repo.UpdateSchedule(context.Background(), card.ID, bob.ID, 1.3, 99, repoNow.AddDate(0, 0, 99))
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), card.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.DefaultEaseFactor, got.EaseFactor)
	assert.Equal(t, models.DefaultInterval, got.Interval)
}

func TestFindRandomCard(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	ids := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		card := createTestCard(t, repo, models.Card{
			UserID: user.ID, Question: "q", Answer: "a",
			DueDate: repoNow.Add(time.Duration(i-2) * 24 * time.Hour),
		})
		ids[card.ID] = true
	}

	for i := 0; i < 10; i++ {
		card, err := repo.FindRandomCard(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.True(t, ids[card.ID])
		assert.Equal(t, user.ID, card.UserID)
	}
}

func TestFindRandomCard_NoCards(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	card, err := repo.FindRandomCard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestCreateBatch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	cards := []models.Card{
		{UserID: user.ID, Question: "q1", Answer: "a1"},
		{UserID: user.ID, Question: "q2", Answer: "a2"},
		{UserID: user.ID, Question: "q3", Answer: "a3", CardType: "cloze"},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), cards))

	total, err := repo.CountTotal(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Batch-created cards get the same defaults as single creates
	newCount, err := repo.CountNew(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, newCount)
}

func TestDelete_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewCardRepository(db)

	card := createTestCard(t, repo, models.Card{
		UserID: alice.ID, Question: "q", Answer: "a",
		DueDate: repoNow,
	})

	require.NoError(t, repo.Delete(context.Background(), card.ID, bob.ID))
	got, err := repo.GetByID(context.Background(), card.ID, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, repo.Delete(context.Background(), card.ID, alice.ID))
	got, err = repo.GetByID(context.Background(), card.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListByOwner(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "later", Answer: "a",
		DueDate: repoNow.Add(48 * time.Hour),
	})
	createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "sooner", Answer: "a",
		DueDate: repoNow.Add(-48 * time.Hour),
	})

	cards, err := repo.ListByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "sooner", cards[0].Question)
	assert.Equal(t, "later", cards[1].Question)
}

func TestUpdateContent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	repo := NewCardRepository(db)

	card := createTestCard(t, repo, models.Card{
		UserID: user.ID, Question: "q", Answer: "a",
		EaseFactor: 2.6, Interval: 2,
		DueDate: repoNow,
	})

	require.NoError(t, repo.UpdateContent(context.Background(), card.ID, user.ID, "q2", "a2"))

	got, err := repo.GetByID(context.Background(), card.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "q2", got.Question)
	assert.Equal(t, "a2", got.Answer)
	// Scheduling state untouched
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.Equal(t, 2, got.Interval)
}
