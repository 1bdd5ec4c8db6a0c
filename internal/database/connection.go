package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database described by the URL and makes sure the
// schema exists. A postgres:// URL selects PostgreSQL, anything else is
// treated as a SQLite file path. The caller owns the returned handle.
func Connect(databaseURL string) (*sqlx.DB, error) {
	driver := "sqlite3"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	}

	if driver == "sqlite3" && databaseURL != ":memory:" {
		// Create the data directory if it doesn't exist
		if dir := filepath.Dir(databaseURL); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %v", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		// Enable foreign keys
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	// Разные типы автоинкремента для разных СУБД
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			username TEXT NOT NULL UNIQUE,
			telegram_chat_id BIGINT UNIQUE,
			notification_enabled BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// "interval" is quoted because it is a reserved word in PostgreSQL
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS cards (
			id %s,
			user_id BIGINT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			card_type TEXT NOT NULL DEFAULT 'basic',
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			"interval" INTEGER NOT NULL DEFAULT 1,
			due_date TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_user_due ON cards (user_id, due_date)`)
	if err != nil {
		return fmt.Errorf("failed to create cards index: %v", err)
	}

	return nil
}
