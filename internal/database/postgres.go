package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDB is the process-wide pool. It is set by ConnectPostgres and
// cleared by DisconnectPostgres.
var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL and initializes the schema
func ConnectPostgres(ctx context.Context, postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	if err = InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	PostgresDB = db
	return db, nil
}

// schemaStatements creates the two domain tables. Mood range and contact
// uniqueness are enforced here as well as by input validation.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id BIGSERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		entry_text TEXT NOT NULL CHECK (length(trim(entry_text)) > 0),
		mood_rating INTEGER NOT NULL CHECK (mood_rating BETWEEN 1 AND 5),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		contact_name VARCHAR(255) NOT NULL,
		contact_email VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT contacts_user_email_unique UNIQUE (user_id, contact_email)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_timestamp ON journal_entries(user_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_user_name ON contacts(user_id, contact_name)`,
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	for _, query := range schemaStatements {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectPostgres closes the PostgreSQL pool and resets the global handle
func DisconnectPostgres() error {
	if PostgresDB == nil {
		return nil
	}
	err := PostgresDB.Close()
	PostgresDB = nil
	return err
}
