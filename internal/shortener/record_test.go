package shortener_test

import (
	"testing"
	"time"

	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestRecordExpired(t *testing.T) {
	now := time.Now()

	t.Run("equality with the expiry instant is not expired", func(t *testing.T) {
		record := shortener.Record{ExpiresAt: now.UnixMilli()}

		assert.False(t, record.Expired(now))
	})

	t.Run("one millisecond past the expiry instant is expired", func(t *testing.T) {
		record := shortener.Record{ExpiresAt: now.UnixMilli() - 1}

		assert.True(t, record.Expired(now))
	})

	t.Run("records without expiry never expire", func(t *testing.T) {
		record := shortener.Record{ExpiresAt: shortener.NoExpiry}

		assert.False(t, record.Expired(now.Add(100*365*24*time.Hour)))
	})
}

func TestNewID(t *testing.T) {
	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]struct{})

		for i := 0; i < 1000; i++ {
			id := shortener.NewID()

			_, dup := seen[id]
			assert.False(t, dup)
			seen[id] = struct{}{}
		}
	})
}
