package kv_test

import (
	"context"
	"testing"

	"github.com/serroba/pocketlink/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("get of a missing key returns ErrKeyNotFound", func(t *testing.T) {
		s := kv.NewMemoryStore()

		_, err := s.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		s := kv.NewMemoryStore()

		require.NoError(t, s.Set(context.Background(), "k", []byte(`{"a":1}`)))

		value, err := s.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), value)
	})

	t.Run("set replaces the whole value", func(t *testing.T) {
		s := kv.NewMemoryStore()
		_ = s.Set(context.Background(), "k", []byte("old"))

		require.NoError(t, s.Set(context.Background(), "k", []byte("new")))

		value, _ := s.Get(context.Background(), "k")
		assert.Equal(t, []byte("new"), value)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := kv.NewMemoryStore()
		_ = s.Set(context.Background(), "k", []byte("abc"))

		value, _ := s.Get(context.Background(), "k")
		value[0] = 'X'

		again, _ := s.Get(context.Background(), "k")
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete removes a key, missing keys are fine", func(t *testing.T) {
		s := kv.NewMemoryStore()
		_ = s.Set(context.Background(), "k", []byte("v"))

		require.NoError(t, s.Delete(context.Background(), "k"))
		require.NoError(t, s.Delete(context.Background(), "k"))

		_, err := s.Get(context.Background(), "k")
		assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	})
}
