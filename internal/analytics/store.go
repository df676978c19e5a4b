package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/pocketlink/internal/messaging"
	"go.uber.org/zap"
)

// Store persists analytics events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkClicked(ctx context.Context, event *LinkClickedEvent) error
}

// AddConsumers registers the created and clicked consumers on a group,
// both writing to the same store.
func AddConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(subscriber, TopicLinkCreated,
		func(ctx context.Context, event *LinkCreatedEvent) error {
			return store.SaveLinkCreated(ctx, event)
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, TopicLinkClicked,
		func(ctx context.Context, event *LinkClickedEvent) error {
			return store.SaveLinkClicked(ctx, event)
		}, logger))
}
