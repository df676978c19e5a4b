// Package store provides analytics.Store implementations.
package store

import (
	"context"

	"github.com/serroba/pocketlink/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.Int64("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveLinkClicked(_ context.Context, event *analytics.LinkClickedEvent) error {
	n.logger.Info("link clicked event received",
		zap.String("code", event.Code),
		zap.String("source", event.Source),
		zap.String("geo", event.Geo),
	)

	return nil
}
