// Package shortener contains the short-code lifecycle core: record model,
// input validation, code generation, batch submission, click recording and
// redirect resolution.
package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record exists for a code or id.
var ErrNotFound = errors.New("record not found")

// NoExpiry marks a record that never expires.
const NoExpiry int64 = 0

// Record represents a shortened URL entity. Field names match the
// persisted JSON layout under the shortened_urls key.
type Record struct {
	ID          string       `json:"id"`
	OriginalURL string       `json:"originalUrl"`
	ShortCode   string       `json:"shortCode"`
	CreatedAt   int64        `json:"creationDate"` // epoch milliseconds
	ExpiresAt   int64        `json:"expiryDate"`   // epoch milliseconds, NoExpiry if unset
	Clicks      []ClickEvent `json:"clicks"`
}

// ClickEvent is a single visit observation. Immutable once appended.
type ClickEvent struct {
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Source    string `json:"source"`
	Geo       string `json:"geo"`
}

// Expired reports whether the record is expired at the given instant.
// Equality with the expiry instant is not expired; expiry fires strictly
// after it. Records without an expiry never expire.
func (r *Record) Expired(at time.Time) bool {
	if r.ExpiresAt == NoExpiry {
		return false
	}

	return at.UnixMilli() > r.ExpiresAt
}

// NewID returns a collision-resistant record identifier: a UUIDv7,
// which combines a millisecond time component with a random suffix.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4.
		return uuid.NewString()
	}

	return id.String()
}

// Repository defines the interface for the durable record collection.
// Implementations persist the full collection atomically per operation.
type Repository interface {
	// ListAll returns the current full set of records. Missing or
	// corrupt persisted data yields an empty slice, never an error.
	ListAll(ctx context.Context) []Record

	// Create appends a record and persists. It does not check code
	// uniqueness; that is the submission flow's responsibility.
	Create(ctx context.Context, record *Record) error

	// FindByCode returns the first record with the given short code,
	// or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*Record, error)

	// Update replaces the record with the same id wholesale. A missing
	// id is a no-op.
	Update(ctx context.Context, record *Record) error

	// Delete removes the record with the given id. A missing id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// IsCodeUnique reports whether no current record uses the code.
	IsCodeUnique(ctx context.Context, code string) bool
}
