package localstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserIDPersistsFallbackOnce(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	id, err := s.UserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	id, err = s.UserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestEntriesNewestFirst(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	for _, offset := range []int{2, 0, 3, 1} {
		ts := base.Add(time.Duration(offset) * time.Hour)
		_, err := s.AddEntry(ctx, models.CreateJournalEntryInput{
			UserID: 1, EntryText: "entry", MoodRating: 3, Timestamp: &ts,
		})
		require.NoError(t, err)
	}
	_, err := s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 2, EntryText: "other user", MoodRating: 3})
	require.NoError(t, err)

	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].Timestamp.Before(entries[i-1].Timestamp))
	}
}

func TestAddEntryAssignsDistinctLocalIDs(t *testing.T) {
	s := openMemory(t)
	fixed := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	a, err := s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "a", MoodRating: 1})
	require.NoError(t, err)
	b, err := s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "b", MoodRating: 5})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, strings.HasPrefix(a.ID.String(), "local-1740816000000-"))
	_, numeric := a.ID.Numeric()
	assert.False(t, numeric)
}

func TestAddEntryValidatesBeforeWriting(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "x", MoodRating: 9})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mood_rating", vErr.Field)

	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteEntry(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	e, err := s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "bye", MoodRating: 2})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, e.ID))
	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = s.DeleteEntry(ctx, e.ID)
	assert.True(t, utils.IsNotFound(err))
}

func TestContactsDuplicateIsConflict(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	c, err := s.AddContact(ctx, models.CreateContactInput{UserID: 1, ContactName: "Dr. Wilson", ContactEmail: "Dr.Wilson@Health.com"})
	require.NoError(t, err)
	assert.Equal(t, "dr.wilson@health.com", c.ContactEmail)

	_, err = s.AddContact(ctx, models.CreateContactInput{UserID: 1, ContactName: "Someone", ContactEmail: "dr.wilson@health.com"})
	assert.True(t, utils.IsConflict(err))

	// Same email under another user is allowed.
	_, err = s.AddContact(ctx, models.CreateContactInput{UserID: 2, ContactName: "Dr. Wilson", ContactEmail: "dr.wilson@health.com"})
	require.NoError(t, err)

	_, err = s.AddContact(ctx, models.CreateContactInput{UserID: 1, ContactName: "Crisis Line", ContactEmail: "help@crisis.org"})
	require.NoError(t, err)

	contacts, err := s.ListContacts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Crisis Line", contacts[0].ContactName)
	assert.Equal(t, "Dr. Wilson", contacts[1].ContactName)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mindtrack.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.AddEntry(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "kept", MoodRating: 4})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].EntryText)
}

func TestResolvePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	path, err := resolvePath(filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	path, err = resolvePath(" :memory: ")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", path)

	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err = resolvePath("~/notes/store.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "store.db"), path)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	path, err = resolvePath("")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("mindtrack", "store.db")), path)
	assert.True(t, filepath.IsAbs(path))
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec(`PRAGMA user_version = 99`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 99")
}
