// Package store implements the durable record collection on top of the
// kv substrate.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/kv"
	"github.com/serroba/pocketlink/internal/shortener"
	"go.uber.org/zap"
)

// RecordStore keeps the full record collection as one JSON blob under
// the shortened_urls key, loading it on every read and writing it back
// whole on every mutation.
//
// Known race: the read-modify-write cycle is not safe against concurrent
// writers on the same substrate (two processes, two tabs in the
// original). Last writer wins; there is no locking or versioning across
// processes. The mutex below serializes mutations within this process
// only.
type RecordStore struct {
	mu        sync.Mutex
	substrate kv.Store
	observer  *applog.Logger
	logger    *zap.Logger
}

// NewRecordStore creates a record store on the given substrate.
func NewRecordStore(substrate kv.Store, observer *applog.Logger, logger *zap.Logger) *RecordStore {
	return &RecordStore{
		substrate: substrate,
		observer:  observer,
		logger:    logger,
	}
}

// ListAll returns the current full set of records. Missing or corrupt
// persisted data fails open to an empty slice.
func (s *RecordStore) ListAll(ctx context.Context) []shortener.Record {
	payload, err := s.substrate.Get(ctx, kv.KeyRecords)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.Error("failed to read records", zap.Error(err))
		}

		return []shortener.Record{}
	}

	var records []shortener.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		s.observer.Error("storage_corrupted", map[string]any{
			"error": err.Error(),
		})

		return []shortener.Record{}
	}

	return records
}

// Create appends the record and persists the collection.
func (s *RecordStore) Create(ctx context.Context, record *shortener.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.ListAll(ctx), *record)

	return s.persist(ctx, records)
}

// FindByCode returns the first record with the given short code.
func (s *RecordStore) FindByCode(ctx context.Context, code string) (*shortener.Record, error) {
	for _, record := range s.ListAll(ctx) {
		if record.ShortCode == code {
			return &record, nil
		}
	}

	return nil, shortener.ErrNotFound
}

// Update replaces the record with the same id wholesale. A missing id
// is a warn-logged no-op.
func (s *RecordStore) Update(ctx context.Context, record *shortener.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.ListAll(ctx)

	for i := range records {
		if records[i].ID == record.ID {
			records[i] = *record

			return s.persist(ctx, records)
		}
	}

	s.observer.Warn("update_missing_record", map[string]any{
		"id": record.ID,
	})

	return nil
}

// Delete removes the record with the given id. A missing id is not an
// error.
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.ListAll(ctx)
	kept := records[:0]

	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}

	if len(kept) == len(records) {
		return nil
	}

	return s.persist(ctx, kept)
}

// IsCodeUnique reports whether no current record uses the code.
func (s *RecordStore) IsCodeUnique(ctx context.Context, code string) bool {
	_, err := s.FindByCode(ctx, code)

	return errors.Is(err, shortener.ErrNotFound)
}

func (s *RecordStore) persist(ctx context.Context, records []shortener.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := s.substrate.Set(ctx, kv.KeyRecords, payload); err != nil {
		s.observer.Error("storage_write_failed", map[string]any{
			"error": err.Error(),
		})

		return fmt.Errorf("persist records: %w", err)
	}

	return nil
}
