package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

// Keys under which records are persisted.
const (
	KeyJournalEntries = "journal_entries"
	KeyContacts       = "contacts"
	KeyUserID         = "user_id"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store is the on-device fallback store. Each collection is a JSON array held
// under one key, so every mutation is a read-modify-write guarded by mu.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// schemaVersion is stamped into PRAGMA user_version. A store written by a
// newer build is refused rather than misread.
const schemaVersion = 1

// Open opens (creating if needed) the store at path. An empty path selects
// the per-user default location and ":memory:" gives an ephemeral store.
func Open(path string) (*Store, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	pragmas := url.Values{}
	pragmas.Set("_busy_timeout", "5000")
	pragmas.Set("_synchronous", "NORMAL")
	if path != memoryPath {
		pragmas.Set("_journal_mode", "WAL")
	}
	db, err := sql.Open("sqlite3", path+"?"+pragmas.Encode())
	if err != nil {
		return nil, fmt.Errorf("open local store %s: %w", path, err)
	}
	// One connection: ":memory:" lives and dies with it, and writes serialize.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open local store %s: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	_, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// newID returns a timestamp-derived local id. The uuid suffix keeps ids
// created within the same millisecond distinct.
func (s *Store) newID() models.RecordID {
	return models.RecordID(fmt.Sprintf("local-%d-%s", s.now().UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0]))
}

// UserID returns the persisted installation user id, storing fallback on
// first use.
func (s *Store) UserID(ctx context.Context, fallback int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	found, err := s.get(ctx, KeyUserID, &raw)
	if err != nil {
		return 0, err
	}
	if found {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			return id, nil
		}
	}
	if err := s.put(ctx, KeyUserID, strconv.Itoa(fallback)); err != nil {
		return 0, err
	}
	return fallback, nil
}

func (s *Store) loadEntries(ctx context.Context) ([]models.EntryRecord, error) {
	entries := make([]models.EntryRecord, 0)
	if _, err := s.get(ctx, KeyJournalEntries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListEntries returns the user's entries, newest first.
func (s *Store) ListEntries(ctx context.Context, userID int) ([]models.EntryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.EntryRecord, 0, len(all))
	for _, e := range all {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// AddEntry validates in and stores it with a local id.
func (s *Store) AddEntry(ctx context.Context, in models.CreateJournalEntryInput) (models.EntryRecord, error) {
	if err := in.Validate(); err != nil {
		return models.EntryRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadEntries(ctx)
	if err != nil {
		return models.EntryRecord{}, err
	}
	entry := models.EntryRecord{
		ID:         s.newID(),
		UserID:     in.UserID,
		EntryText:  in.EntryText,
		MoodRating: in.MoodRating,
		Timestamp:  in.TimestampOrNow(),
	}
	all = append([]models.EntryRecord{entry}, all...)
	sortEntries(all)
	if err := s.put(ctx, KeyJournalEntries, all); err != nil {
		return models.EntryRecord{}, err
	}
	return entry, nil
}

// DeleteEntry removes the entry with id, or returns a NotFoundError.
func (s *Store) DeleteEntry(ctx context.Context, id models.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadEntries(ctx)
	if err != nil {
		return err
	}
	for i, e := range all {
		if e.ID == id {
			all = append(all[:i], all[i+1:]...)
			return s.put(ctx, KeyJournalEntries, all)
		}
	}
	return &utils.NotFoundError{Resource: "journal entry", ID: id.String()}
}

func sortEntries(entries []models.EntryRecord) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

func (s *Store) loadContacts(ctx context.Context) ([]models.ContactRecord, error) {
	contacts := make([]models.ContactRecord, 0)
	if _, err := s.get(ctx, KeyContacts, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListContacts returns the user's contacts ordered by name.
func (s *Store) ListContacts(ctx context.Context, userID int) ([]models.ContactRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadContacts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ContactRecord, 0, len(all))
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ContactName < out[j].ContactName })
	return out, nil
}

// AddContact validates in and stores it. A second contact with the same
// user and email is rejected with a ConflictError.
func (s *Store) AddContact(ctx context.Context, in models.CreateContactInput) (models.ContactRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ContactRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadContacts(ctx)
	if err != nil {
		return models.ContactRecord{}, err
	}
	for _, c := range all {
		if c.UserID == in.UserID && c.ContactEmail == in.ContactEmail {
			return models.ContactRecord{}, &utils.ConflictError{Message: "Contact with this email already exists"}
		}
	}
	contact := models.ContactRecord{
		ID:           s.newID(),
		UserID:       in.UserID,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		CreatedAt:    s.now().UTC(),
	}
	all = append(all, contact)
	if err := s.put(ctx, KeyContacts, all); err != nil {
		return models.ContactRecord{}, err
	}
	return contact, nil
}
