package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/flashbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance over the given
// connection
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO users (username, telegram_chat_id, notification_enabled)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		return r.db.QueryRowContext(ctx, query,
			user.Username,
			user.TelegramChatID,
			user.NotificationEnabled,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	}

	// Для SQLite (без RETURNING)
	query := `
		INSERT INTO users (username, telegram_chat_id, notification_enabled)
		VALUES (?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.TelegramChatID,
		user.NotificationEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID returns a user by ID, or nil if no such user exists
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UsersForNotification returns users who have notifications enabled and
// a Telegram chat registered
func (r *UserRepository) UsersForNotification(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT * FROM users
		WHERE telegram_chat_id IS NOT NULL AND notification_enabled = true
		ORDER BY id ASC
	`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}
	return users, nil
}

// SetTelegramChat links a Telegram chat to the user's account
func (r *UserRepository) SetTelegramChat(ctx context.Context, userID, chatID int64) error {
	query := r.db.Rebind(`
		UPDATE users SET
			telegram_chat_id = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	_, err := r.db.ExecContext(ctx, query, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to set telegram chat: %w", err)
	}
	return nil
}
