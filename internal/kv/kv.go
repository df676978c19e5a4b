// Package kv is the key-value persistence substrate. State is stored as
// whole JSON blobs under a small fixed set of keys; backends only need
// get/set/delete of opaque byte values.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has no stored value.
var ErrKeyNotFound = errors.New("key not found")

// Well-known keys of the persisted state layout.
const (
	KeyRecords = "shortened_urls"
	KeyAppLogs = "app_logs"
)

// Store defines the substrate interface. Writes replace the whole value
// for a key; there are no partial updates.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
