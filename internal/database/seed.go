package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SampleUserID owns the seeded rows.
const SampleUserID = 1

type sampleEntry struct {
	text string
	mood int
	age  time.Duration
}

type sampleContact struct {
	name  string
	email string
}

var sampleEntries = []sampleEntry{
	{"Felt calm after a morning walk.", 4, 48 * time.Hour},
	{"Stressful day at work, but talked it through with a friend.", 2, 24 * time.Hour},
	{"Slept well and got a lot done.", 5, 2 * time.Hour},
}

var sampleContacts = []sampleContact{
	{"Dr. Patel", "dr.patel@clinic.example"},
	{"Crisis Line", "support@crisisline.org"},
}

// SeedSampleData inserts sample rows for SampleUserID. It runs without a
// transaction; each table is skipped when the user already has rows there,
// so repeated runs are no-ops.
func SeedSampleData(ctx context.Context, db *sql.DB) (entries int, contacts int, err error) {
	var count int
	if err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, SampleUserID).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("count journal entries: %w", err)
	}
	if count == 0 {
		now := time.Now().UTC()
		for _, e := range sampleEntries {
			if _, err = db.ExecContext(ctx, `
				INSERT INTO journal_entries (user_id, entry_text, mood_rating, timestamp)
				VALUES ($1, $2, $3, $4)
			`, SampleUserID, e.text, e.mood, now.Add(-e.age)); err != nil {
				return entries, 0, fmt.Errorf("seed journal entry: %w", err)
			}
			entries++
		}
	}

	if err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE user_id = $1`, SampleUserID).Scan(&count); err != nil {
		return entries, 0, fmt.Errorf("count contacts: %w", err)
	}
	if count == 0 {
		for _, c := range sampleContacts {
			if _, err = db.ExecContext(ctx, `
				INSERT INTO contacts (user_id, contact_name, contact_email)
				VALUES ($1, $2, $3)
			`, SampleUserID, c.name, c.email); err != nil {
				return entries, contacts, fmt.Errorf("seed contact: %w", err)
			}
			contacts++
		}
	}

	return entries, contacts, nil
}
