package shortener

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/serroba/pocketlink/internal/analytics"
	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/messaging"
	"go.uber.org/zap"
)

// Traffic-source and region labels clicks are sampled from. Closed sets;
// there is no external analytics signal.
var (
	SourceLabels = []string{"Direct", "Google Search", "Social Media", "Email", "Referral", "Other"}
	GeoLabels    = []string{"North America", "Europe", "Asia", "South America", "Africa", "Oceania"}
)

// Sampler picks the label pair for a click observation.
type Sampler interface {
	Labels() (source, geo string)
}

// UniformSampler draws both labels uniformly from the fixed sets.
type UniformSampler struct{}

// Labels returns one source and one region label.
func (UniformSampler) Labels() (string, string) {
	return SourceLabels[rand.IntN(len(SourceLabels))],
		GeoLabels[rand.IntN(len(GeoLabels))]
}

// ClickRecorder synthesizes click observations and appends them to
// records.
type ClickRecorder struct {
	repo     Repository
	sampler  Sampler
	publish  messaging.Publish[analytics.LinkClickedEvent]
	observer *applog.Logger
	logger   *zap.Logger
	now      func() time.Time
}

// NewClickRecorder creates a click recorder.
func NewClickRecorder(
	repo Repository,
	sampler Sampler,
	publish messaging.Publish[analytics.LinkClickedEvent],
	observer *applog.Logger,
	logger *zap.Logger,
) *ClickRecorder {
	return &ClickRecorder{
		repo:     repo,
		sampler:  sampler,
		publish:  publish,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Record appends a click to the record with the given code and persists
// it. An absent record (raced with deletion) is a no-op. The returned
// error covers persistence failures only; callers on the redirect path
// log it and proceed.
func (c *ClickRecorder) Record(ctx context.Context, code string) error {
	record, err := c.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return fmt.Errorf("find record: %w", err)
	}

	source, geo := c.sampler.Labels()
	click := ClickEvent{
		Timestamp: c.now().UnixMilli(),
		Source:    source,
		Geo:       geo,
	}

	record.Clicks = append(record.Clicks, click)

	if err := c.repo.Update(ctx, record); err != nil {
		c.observer.Error("click_persist_failed", map[string]any{
			"shortCode": code,
			"error":     err.Error(),
		})

		return fmt.Errorf("persist click: %w", err)
	}

	c.observer.Info("click_recorded", map[string]any{
		"shortCode": code,
		"source":    source,
		"geo":       geo,
	})

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkClickedEvent{
		Code:      code,
		Timestamp: click.Timestamp,
		Source:    source,
		Geo:       geo,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := c.publish(event); err != nil {
		c.logger.Error("failed to publish clicked event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	return nil
}
