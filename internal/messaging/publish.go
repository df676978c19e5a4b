// Package messaging provides typed publish/consume plumbing over
// watermill for the analytics event feed.
package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends a typed event to its topic. Publishing is
// fire-and-forget from the core's point of view; failures are logged by
// callers, never surfaced to users.
type Publish[T any] func(event *T) error

// NewPublishFunc creates a typed publish function bound to one topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)

		return publisher.Publish(topic, msg)
	}
}

// NoopPublish discards events; used when no event transport is wired.
func NoopPublish[T any]() Publish[T] {
	return func(*T) error { return nil }
}

// PublisherGroup owns the lifecycle of the underlying publisher shared
// by all typed publish functions.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup creates a publisher group.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher returns the underlying message publisher.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
