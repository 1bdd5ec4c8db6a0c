package models

import (
	"database/sql"
	"time"
)

// User represents an account that owns cards
type User struct {
	ID                  int64         `json:"id" db:"id"`
	Username            string        `json:"username" db:"username"`
	TelegramChatID      sql.NullInt64 `json:"telegram_chat_id" db:"telegram_chat_id"` // Set once the user links their Telegram chat
	NotificationEnabled bool          `json:"notification_enabled" db:"notification_enabled"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}
