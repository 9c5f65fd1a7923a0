package models

import "time"

// EntryRecord is a journal entry as seen by the client, whichever store it
// came from.
type EntryRecord struct {
	ID         RecordID  `json:"id"`
	UserID     int       `json:"user_id"`
	EntryText  string    `json:"entry_text"`
	MoodRating int       `json:"mood_rating"`
	Timestamp  time.Time `json:"timestamp"`
}

// ContactRecord is a contact as seen by the client.
type ContactRecord struct {
	ID           RecordID  `json:"id"`
	UserID       int       `json:"user_id"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}
