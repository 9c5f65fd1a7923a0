package services

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindtrack/internal/models"
)

// memRedis answers GET, SET and INCR from a map so the cache can run against a
// real *redis.Client without a server.
type memRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("memRedis: no network")
	}
}

func (m *memRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.StringCmd:
			val, ok := m.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(val)
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				m.data[key] = string(v)
			default:
				m.data[key] = fmt.Sprint(v)
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			var n int64
			fmt.Sscan(m.data[key], &n)
			n++
			m.data[key] = fmt.Sprint(n)
			c.SetVal(n)
		default:
			err := fmt.Errorf("memRedis: unsupported command %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func newMemCache(t *testing.T) *CacheService {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	client.AddHook(&memRedis{data: map[string]string{}})
	t.Cleanup(func() { client.Close() })
	return NewCacheService(client, time.Minute)
}

func TestCacheListWrittenBeforeInvalidateIsNeverServed(t *testing.T) {
	cache := newMemCache(t)
	ctx := context.Background()
	scope := journalCacheKey(1)

	// A reader takes the version, a writer commits and invalidates, then the
	// reader stores what it queried before the write.
	before, ok := cache.Version(ctx, scope)
	require.True(t, ok)
	cache.Invalidate(ctx, scope)
	cache.Set(ctx, VersionedKey(scope, before), []string{"stale"})

	now, ok := cache.Version(ctx, scope)
	require.True(t, ok)
	assert.NotEqual(t, before, now)

	var got []string
	assert.False(t, cache.Get(ctx, VersionedKey(scope, now), &got))
}

func TestCacheVersionStartsAtZero(t *testing.T) {
	cache := newMemCache(t)
	v, ok := cache.Version(context.Background(), "contacts:user:9")
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
}

func TestJournalListServedFromCacheUntilCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewJournalService(db, newMemCache(t))
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "entry_text", "mood_rating", "timestamp"}

	mock.ExpectQuery("SELECT id, user_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), 1, "first", 3, ts))
	mock.ExpectQuery("INSERT INTO journal_entries").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(2), ts.Add(time.Hour)))
	mock.ExpectQuery("SELECT id, user_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), 1, "second", 4, ts.Add(time.Hour)).
			AddRow(int64(1), 1, "first", 3, ts))

	entries, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.Create(ctx, models.CreateJournalEntryInput{UserID: 1, EntryText: "second", MoodRating: 4})
	require.NoError(t, err)

	entries, err = svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].EntryText)
	assert.NoError(t, mock.ExpectationsWereMet())
}
