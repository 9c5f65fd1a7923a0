package models

import (
	"strings"
	"time"
)

const (
	MinMoodRating = 1
	MaxMoodRating = 5
)

// JournalEntry is a mood-rated journal entry owned by a single user
type JournalEntry struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id"`
	EntryText  string    `json:"entry_text" db:"entry_text"`
	MoodRating int       `json:"mood_rating" db:"mood_rating"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

// CreateJournalEntryInput is the payload accepted by the create entry operation.
// Timestamp is optional; a nil value means "now".
type CreateJournalEntryInput struct {
	UserID     int        `json:"user_id" validate:"gt=0"`
	EntryText  string     `json:"entry_text" validate:"required"`
	MoodRating int        `json:"mood_rating" validate:"min=1,max=5"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// Normalize trims the entry text in place.
func (in *CreateJournalEntryInput) Normalize() {
	in.EntryText = strings.TrimSpace(in.EntryText)
}

// Validate normalizes the input and reports the first offending field.
func (in *CreateJournalEntryInput) Validate() error {
	in.Normalize()
	return validateStruct(in)
}

// TimestampOrNow returns the caller-supplied timestamp or the current time in UTC.
func (in *CreateJournalEntryInput) TimestampOrNow() time.Time {
	if in.Timestamp == nil || in.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return in.Timestamp.UTC()
}
