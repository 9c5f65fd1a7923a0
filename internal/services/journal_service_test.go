package services

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

func newMockJournalService(t *testing.T) (*JournalService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewJournalService(db, nil), mock
}

func TestJournalCreateReturnsServerAssignedFields(t *testing.T) {
	svc, mock := newMockJournalService(t)
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WithArgs(1, "Test", 4, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(42), created))

	entry, err := svc.Create(context.Background(), models.CreateJournalEntryInput{
		UserID:     1,
		EntryText:  "  Test  ",
		MoodRating: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, "Test", entry.EntryText)
	assert.Equal(t, 4, entry.MoodRating)
	assert.Equal(t, created, entry.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalCreatePassesCallerTimestamp(t *testing.T) {
	svc, mock := newMockJournalService(t)
	ts := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WithArgs(7, "Holiday", 5, ts).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), ts))

	_, err := svc.Create(context.Background(), models.CreateJournalEntryInput{
		UserID: 7, EntryText: "Holiday", MoodRating: 5, Timestamp: &ts,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalCreateRejectsOutOfRangeMoodWithoutQuerying(t *testing.T) {
	svc, mock := newMockJournalService(t)

	for mood := -10; mood <= 20; mood++ {
		if mood >= 1 && mood <= 5 {
			continue
		}
		_, err := svc.Create(context.Background(), models.CreateJournalEntryInput{
			UserID: 1, EntryText: "x", MoodRating: mood,
		})
		var vErr *utils.ValidationError
		require.ErrorAs(t, err, &vErr, "mood %d", mood)
		assert.Equal(t, "mood_rating", vErr.Field)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalCreateMapsCheckViolation(t *testing.T) {
	svc, mock := newMockJournalService(t)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WillReturnError(&pq.Error{Code: "23514", Constraint: "journal_entries_mood_rating_check", Message: "new row violates check constraint"})

	_, err := svc.Create(context.Background(), models.CreateJournalEntryInput{UserID: 1, EntryText: "x", MoodRating: 3})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mood_rating", vErr.Field)
}

func TestJournalCreateConnectionFailureIsUnavailable(t *testing.T) {
	svc, mock := newMockJournalService(t)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	_, err := svc.Create(context.Background(), models.CreateJournalEntryInput{UserID: 1, EntryText: "x", MoodRating: 3})
	assert.True(t, utils.IsUnavailable(err))
	assert.False(t, utils.IsValidation(err))
}

func TestJournalListOrdersNewestFirst(t *testing.T) {
	svc, mock := newMockJournalService(t)
	newer := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id, entry_text, mood_rating, timestamp FROM journal_entries WHERE user_id = \\$1 ORDER BY timestamp DESC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "entry_text", "mood_rating", "timestamp"}).
			AddRow(int64(2), 1, "second", 3, newer).
			AddRow(int64(1), 1, "first", 4, older))

	entries, err := svc.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].EntryText)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalListEmptyIsNotNil(t *testing.T) {
	svc, mock := newMockJournalService(t)
	mock.ExpectQuery("SELECT id, user_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "entry_text", "mood_rating", "timestamp"}))

	entries, err := svc.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestJournalListRejectsInvalidUser(t *testing.T) {
	svc, mock := newMockJournalService(t)
	_, err := svc.ListByUser(context.Background(), 0)
	assert.True(t, utils.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalDelete(t *testing.T) {
	svc, mock := newMockJournalService(t)

	mock.ExpectQuery("DELETE FROM journal_entries").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
	mock.ExpectQuery("DELETE FROM journal_entries").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	require.NoError(t, svc.Delete(context.Background(), 5))

	err := svc.Delete(context.Background(), 5)
	assert.True(t, utils.IsNotFound(err))
	assert.False(t, utils.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
