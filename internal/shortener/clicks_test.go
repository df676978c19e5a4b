package shortener_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/serroba/pocketlink/internal/analytics"
	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/kv"
	"github.com/serroba/pocketlink/internal/messaging"
	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seqSampler labels clicks with an increasing sequence number so tests
// can assert arrival order.
type seqSampler struct {
	n int
}

func (s *seqSampler) Labels() (string, string) {
	s.n++

	return fmt.Sprintf("source-%d", s.n), fmt.Sprintf("geo-%d", s.n)
}

func newTestRecorder(repo shortener.Repository, sampler shortener.Sampler) *shortener.ClickRecorder {
	return shortener.NewClickRecorder(
		repo,
		sampler,
		messaging.NoopPublish[analytics.LinkClickedEvent](),
		applog.New(kv.NewMemoryStore(), zap.NewNop()),
		zap.NewNop(),
	)
}

func TestUniformSampler(t *testing.T) {
	t.Run("labels come from the fixed sets", func(t *testing.T) {
		sampler := shortener.UniformSampler{}

		for i := 0; i < 100; i++ {
			source, geo := sampler.Labels()

			assert.Contains(t, shortener.SourceLabels, source)
			assert.Contains(t, shortener.GeoLabels, geo)
		}
	})
}

func TestClickRecorder(t *testing.T) {
	seed := func(t *testing.T, repo shortener.Repository) shortener.Record {
		t.Helper()

		record := shortener.Record{
			ID:          shortener.NewID(),
			OriginalURL: "https://example.com",
			ShortCode:   "abc123",
			Clicks:      []shortener.ClickEvent{},
		}
		require.NoError(t, repo.Create(context.Background(), &record))

		return record
	}

	t.Run("appends exactly one click per call, preserving order", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		seed(t, repo)
		recorder := newTestRecorder(repo, &seqSampler{})

		const clicks = 5
		for i := 0; i < clicks; i++ {
			require.NoError(t, recorder.Record(context.Background(), "abc123"))
		}

		record, err := repo.FindByCode(context.Background(), "abc123")
		require.NoError(t, err)
		require.Len(t, record.Clicks, clicks)

		for i, click := range record.Clicks {
			assert.Equal(t, fmt.Sprintf("source-%d", i+1), click.Source)
			assert.Equal(t, fmt.Sprintf("geo-%d", i+1), click.Geo)

			if i > 0 {
				assert.GreaterOrEqual(t, click.Timestamp, record.Clicks[i-1].Timestamp)
			}
		}
	})

	t.Run("earlier clicks are unchanged by later ones", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		seed(t, repo)
		recorder := newTestRecorder(repo, &seqSampler{})

		require.NoError(t, recorder.Record(context.Background(), "abc123"))

		before, err := repo.FindByCode(context.Background(), "abc123")
		require.NoError(t, err)
		first := before.Clicks[0]

		require.NoError(t, recorder.Record(context.Background(), "abc123"))

		after, err := repo.FindByCode(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, first, after.Clicks[0])
	})

	t.Run("an absent record is a no-op", func(t *testing.T) {
		repo := newTestRepository(kv.NewMemoryStore())
		recorder := newTestRecorder(repo, shortener.UniformSampler{})

		assert.NoError(t, recorder.Record(context.Background(), "missing"))
	})
}
