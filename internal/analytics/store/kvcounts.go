package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/serroba/pocketlink/internal/analytics"
	"github.com/serroba/pocketlink/internal/kv"
)

// countsKey is the substrate key the aggregate tallies live under.
const countsKey = "click_stats"

// Counts are cumulative tallies for the statistics feed.
type Counts struct {
	Created  int64            `json:"created"`
	Clicks   int64            `json:"clicks"`
	PerCode  map[string]int64 `json:"perCode"`
	BySource map[string]int64 `json:"bySource"`
	ByGeo    map[string]int64 `json:"byGeo"`
}

// KVCounts is an analytics.Store aggregating events into per-code,
// per-source and per-region tallies in the substrate.
type KVCounts struct {
	mu        sync.Mutex
	substrate kv.Store
}

// NewKVCounts creates an aggregate counts store.
func NewKVCounts(substrate kv.Store) *KVCounts {
	return &KVCounts{substrate: substrate}
}

func (s *KVCounts) SaveLinkCreated(ctx context.Context, _ *analytics.LinkCreatedEvent) error {
	return s.mutate(ctx, func(c *Counts) {
		c.Created++
	})
}

func (s *KVCounts) SaveLinkClicked(ctx context.Context, event *analytics.LinkClickedEvent) error {
	return s.mutate(ctx, func(c *Counts) {
		c.Clicks++
		c.PerCode[event.Code]++
		c.BySource[event.Source]++
		c.ByGeo[event.Geo]++
	})
}

// Load returns the current tallies. Missing or corrupt data yields
// zeroed counts.
func (s *KVCounts) Load(ctx context.Context) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *KVCounts) mutate(ctx context.Context, apply func(*Counts)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.load(ctx)
	apply(&counts)

	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}

	return s.substrate.Set(ctx, countsKey, payload)
}

func (s *KVCounts) load(ctx context.Context) Counts {
	counts := Counts{
		PerCode:  make(map[string]int64),
		BySource: make(map[string]int64),
		ByGeo:    make(map[string]int64),
	}

	payload, err := s.substrate.Get(ctx, countsKey)
	if err != nil {
		return counts
	}

	if err := json.Unmarshal(payload, &counts); err != nil {
		return Counts{
			PerCode:  make(map[string]int64),
			BySource: make(map[string]int64),
			ByGeo:    make(map[string]int64),
		}
	}

	if counts.PerCode == nil {
		counts.PerCode = make(map[string]int64)
	}

	if counts.BySource == nil {
		counts.BySource = make(map[string]int64)
	}

	if counts.ByGeo == nil {
		counts.ByGeo = make(map[string]int64)
	}

	return counts
}
