package transient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paypal-payments-gateway/internal/model"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newGormStore(t *testing.T, c *clock) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TransientEntry{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := NewGormStore(db)
	s.now = c.Now
	return s
}

func newMemoryStore(t *testing.T, c *clock) *MemoryStore {
	s := NewMemoryStore(time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = c.Now
	t.Cleanup(s.Stop)
	return s
}

// eachStore runs fn against both implementations.
func eachStore(t *testing.T, fn func(t *testing.T, s Store, c *clock)) {
	t.Run("gorm", func(t *testing.T) {
		c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
		fn(t, newGormStore(t, c), c)
	})
	t.Run("memory", func(t *testing.T) {
		c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
		fn(t, newMemoryStore(t, c), c)
	})
}

func TestStore_SetGetExpire(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("v1"), time.Minute))
		require.NoError(t, s.Set(ctx, "k", []byte("v2"), time.Minute))

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v2"), v)

		c.Advance(time.Minute)
		_, ok, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.ErrorIs(t, s.Set(ctx, "", nil, time.Minute), ErrEmptyKey)
	})
}

func TestStore_TakeIsSingleUse(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, c *clock) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "snap", []byte(`{"a":1}`), 2*time.Hour))

		v, ok, err := s.Take(ctx, "snap")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"a":1}`), v)

		_, ok, err = s.Take(ctx, "snap")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Set(ctx, "old", []byte("x"), time.Second))
		c.Advance(2 * time.Second)
		_, ok, err = s.Take(ctx, "old")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStore_SetIfAbsent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, c *clock) {
		ctx := context.Background()

		ok, err := s.SetIfAbsent(ctx, "lock", []byte("a"), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.SetIfAbsent(ctx, "lock", []byte("b"), time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		c.Advance(time.Minute)
		ok, err = s.SetIfAbsent(ctx, "lock", []byte("c"), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "expired entries do not block")

		v, _, err := s.Get(ctx, "lock")
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), v)
	})
}

func TestTryLock_ConcurrentCallersGetOneLock(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, _ *clock) {
		ctx := context.Background()
		var acquired atomic.Int32
		var releases []func()
		var mu sync.Mutex
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, ok, err := TryLock(ctx, s, "op", time.Minute)
				assert.NoError(t, err)
				if ok {
					acquired.Add(1)
					mu.Lock()
					releases = append(releases, release)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), acquired.Load())

		releases[0]()
		_, ok, err := TryLock(ctx, s, "op", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestTryLock_ExpiredReleaseKeepsNewOwner(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, c *clock) {
		ctx := context.Background()
		first, ok, err := TryLock(ctx, s, "op", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		c.Advance(2 * time.Minute)
		second, ok, err := TryLock(ctx, s, "op", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		first()
		_, ok, err = TryLock(ctx, s, "op", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		second()
		_, ok, err = TryLock(ctx, s, "op", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestStore_DeleteIfValue(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store, _ *clock) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("mine"), time.Minute))

		deleted, err := s.DeleteIfValue(ctx, "k", []byte("theirs"))
		require.NoError(t, err)
		assert.False(t, deleted)
		_, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)

		deleted, err = s.DeleteIfValue(ctx, "k", []byte("mine"))
		require.NoError(t, err)
		assert.True(t, deleted)
		_, found, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestGormStore_PurgeExpired(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newGormStore(t, c)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	c.Advance(time.Minute)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStore_Purge(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newMemoryStore(t, c)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	c.Advance(time.Minute)

	assert.Equal(t, 1, s.purge())
	_, ok, _ := s.Get(ctx, "b")
	assert.True(t, ok)
}
