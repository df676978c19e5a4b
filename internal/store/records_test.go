package store_test

import (
	"context"
	"testing"

	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/kv"
	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/serroba/pocketlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecordStore(substrate kv.Store) *store.RecordStore {
	observer := applog.New(kv.NewMemoryStore(), zap.NewNop())

	return store.NewRecordStore(substrate, observer, zap.NewNop())
}

func record(id, code string) *shortener.Record {
	return &shortener.Record{
		ID:          id,
		OriginalURL: "https://example.com",
		ShortCode:   code,
		CreatedAt:   1700000000000,
		Clicks:      []shortener.ClickEvent{},
	}
}

func TestListAll(t *testing.T) {
	t.Run("empty substrate yields an empty slice", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())

		assert.Empty(t, s.ListAll(context.Background()))
	})

	t.Run("corrupt persisted data fails open to an empty slice", func(t *testing.T) {
		substrate := kv.NewMemoryStore()
		require.NoError(t, substrate.Set(context.Background(), kv.KeyRecords, []byte("{not json")))

		s := newRecordStore(substrate)

		assert.NotPanics(t, func() {
			assert.Empty(t, s.ListAll(context.Background()))
		})
	})

	t.Run("reads are idempotent", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())
		require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))
		require.NoError(t, s.Create(context.Background(), record("id2", "def456")))

		first := s.ListAll(context.Background())
		second := s.ListAll(context.Background())

		assert.Equal(t, first, second)
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())
		require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))
		require.NoError(t, s.Create(context.Background(), record("id2", "def456")))

		records := s.ListAll(context.Background())

		require.Len(t, records, 2)
		assert.Equal(t, "id1", records[0].ID)
		assert.Equal(t, "id2", records[1].ID)
	})
}

func TestFindByCode(t *testing.T) {
	t.Run("finds an existing record", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())
		require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))

		found, err := s.FindByCode(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "id1", found.ID)
	})

	t.Run("returns ErrNotFound for unknown codes", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())

		_, err := s.FindByCode(context.Background(), "missing")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("replaces the record wholesale", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())
		require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))

		updated := record("id1", "abc123")
		updated.Clicks = []shortener.ClickEvent{{Timestamp: 1, Source: "Direct", Geo: "Europe"}}

		require.NoError(t, s.Update(context.Background(), updated))

		found, err := s.FindByCode(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Len(t, found.Clicks, 1)
	})

	t.Run("updating a missing id is a silent no-op", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())

		require.NoError(t, s.Update(context.Background(), record("ghost", "abc123")))
		assert.Empty(t, s.ListAll(context.Background()))
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes the matching record only", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())
		require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))
		require.NoError(t, s.Create(context.Background(), record("id2", "def456")))

		require.NoError(t, s.Delete(context.Background(), "id1"))

		records := s.ListAll(context.Background())
		require.Len(t, records, 1)
		assert.Equal(t, "id2", records[0].ID)
	})

	t.Run("deleting a missing id is not an error", func(t *testing.T) {
		s := newRecordStore(kv.NewMemoryStore())

		assert.NoError(t, s.Delete(context.Background(), "ghost"))
	})
}

func TestIsCodeUnique(t *testing.T) {
	s := newRecordStore(kv.NewMemoryStore())
	require.NoError(t, s.Create(context.Background(), record("id1", "abc123")))

	assert.False(t, s.IsCodeUnique(context.Background(), "abc123"))
	assert.True(t, s.IsCodeUnique(context.Background(), "zzz999"))
}
