package shortener_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/kv"
	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(repo shortener.Repository) *shortener.Resolver {
	return shortener.NewResolver(
		repo,
		newTestRecorder(repo, shortener.UniformSampler{}),
		applog.New(kv.NewMemoryStore(), zap.NewNop()),
		zap.NewNop(),
	)
}

func seedRecord(t *testing.T, repo shortener.Repository, code string, expiresAt int64) shortener.Record {
	t.Helper()

	record := shortener.Record{
		ID:          shortener.NewID(),
		OriginalURL: "https://example.com",
		ShortCode:   code,
		CreatedAt:   time.Now().UnixMilli(),
		ExpiresAt:   expiresAt,
		Clicks:      []shortener.ClickEvent{},
	}
	require.NoError(t, repo.Create(context.Background(), &record))

	return record
}

func TestResolve(t *testing.T) {
	t.Run("empty code is not found", func(t *testing.T) {
		resolver := newTestResolver(newTestRepository(kv.NewMemoryStore()))

		res := resolver.Resolve(context.Background(), "")

		assert.Equal(t, shortener.StateNotFound, res.State)
		assert.Empty(t, res.TargetURL)
	})

	t.Run("unknown code is not found and mutates nothing", func(t *testing.T) {
		substrate := kv.NewMemoryStore()
		repo := newTestRepository(substrate)
		resolver := newTestResolver(repo)

		res := resolver.Resolve(context.Background(), "doesnotexist")

		assert.Equal(t, shortener.StateNotFound, res.State)

		_, err := substrate.Get(context.Background(), kv.KeyRecords)
		assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	})

	t.Run("an active record redirects and records the click first", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		resolver := newTestResolver(repo)
		seedRecord(t, repo, "active1", time.Now().Add(time.Hour).UnixMilli())

		res := resolver.Resolve(context.Background(), "active1")

		assert.Equal(t, shortener.StateRedirecting, res.State)
		assert.Equal(t, "https://example.com", res.TargetURL)

		record, err := repo.FindByCode(context.Background(), "active1")
		require.NoError(t, err)
		assert.Len(t, record.Clicks, 1)
	})

	t.Run("a record without expiry always redirects", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		resolver := newTestResolver(repo)
		seedRecord(t, repo, "forever", shortener.NoExpiry)

		res := resolver.Resolve(context.Background(), "forever")

		assert.Equal(t, shortener.StateRedirecting, res.State)
	})

	t.Run("an expired record is terminal and records no click", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		resolver := newTestResolver(repo)
		seedRecord(t, repo, "expired1", time.Now().Add(-time.Second).UnixMilli())

		res := resolver.Resolve(context.Background(), "expired1")

		assert.Equal(t, shortener.StateExpired, res.State)
		assert.Empty(t, res.TargetURL)

		record, err := repo.FindByCode(context.Background(), "expired1")
		require.NoError(t, err)
		assert.Empty(t, record.Clicks)
	})

	t.Run("expired records stay queryable for statistics", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		resolver := newTestResolver(repo)
		seedRecord(t, repo, "expired2", time.Now().Add(-time.Second).UnixMilli())

		_ = resolver.Resolve(context.Background(), "expired2")

		assert.Len(t, repo.ListAll(context.Background()), 1)
	})
}
