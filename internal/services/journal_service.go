package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

const (
	insertJournalEntryStatement = `
	INSERT INTO journal_entries (user_id, entry_text, mood_rating, timestamp)
	VALUES ($1, $2, $3, $4)
	RETURNING id, timestamp
	`

	listJournalEntriesStatement = `
	SELECT id, user_id, entry_text, mood_rating, timestamp
	FROM journal_entries
	WHERE user_id = $1
	ORDER BY timestamp DESC, id DESC
	`

	deleteJournalEntryStatement = `
	DELETE FROM journal_entries
	WHERE id = $1
	RETURNING user_id
	`
)

type JournalService struct {
	db    *sql.DB
	cache *CacheService
}

func NewJournalService(db *sql.DB, cache *CacheService) *JournalService {
	return &JournalService{db: db, cache: cache}
}

func journalCacheKey(userID int) string {
	return CacheKey("journal:user", strconv.Itoa(userID))
}

// Create validates the input and inserts a new entry. Validation failures
// never reach the database.
func (s *JournalService) Create(ctx context.Context, in models.CreateJournalEntryInput) (models.JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return models.JournalEntry{}, err
	}

	entry := models.JournalEntry{
		UserID:     in.UserID,
		EntryText:  in.EntryText,
		MoodRating: in.MoodRating,
	}
	err := s.db.QueryRowContext(ctx, insertJournalEntryStatement,
		in.UserID, in.EntryText, in.MoodRating, in.TimestampOrNow(),
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return models.JournalEntry{}, classifyStorageError("create journal entry", err)
	}

	s.cache.Invalidate(ctx, journalCacheKey(in.UserID))
	return entry, nil
}

// ListByUser returns a user's entries, newest first.
func (s *JournalService) ListByUser(ctx context.Context, userID int) ([]models.JournalEntry, error) {
	if userID <= 0 {
		return nil, &utils.ValidationError{Field: "user_id", Message: "Invalid user ID"}
	}

	var cached []models.JournalEntry
	scope := journalCacheKey(userID)
	version, cacheable := s.cache.Version(ctx, scope)
	if cacheable && s.cache.Get(ctx, VersionedKey(scope, version), &cached) {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, listJournalEntriesStatement, userID)
	if err != nil {
		return nil, classifyStorageError("list journal entries", err)
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EntryText, &e.MoodRating, &e.Timestamp); err != nil {
			return nil, classifyStorageError("scan journal entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError("list journal entries", err)
	}

	if cacheable {
		s.cache.Set(ctx, VersionedKey(scope, version), entries)
	}
	return entries, nil
}

// Delete removes an entry by id. A missing row is reported as *utils.NotFoundError.
func (s *JournalService) Delete(ctx context.Context, entryID int64) error {
	if entryID <= 0 {
		return &utils.ValidationError{Field: "entry_id", Message: "Invalid entry ID"}
	}

	var userID int
	err := s.db.QueryRowContext(ctx, deleteJournalEntryStatement, entryID).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &utils.NotFoundError{Resource: "journal entry", ID: strconv.FormatInt(entryID, 10)}
		}
		return classifyStorageError("delete journal entry", err)
	}

	s.cache.Invalidate(ctx, journalCacheKey(userID))
	return nil
}
