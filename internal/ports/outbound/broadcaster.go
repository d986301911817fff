package outbound

import "context"

// EventType represents the type of event being broadcasted
type EventType string

const (
	EventTypeItemCreated EventType = "item.created"
	EventTypeError       EventType = "error"
)

// TopicItems is the topic every item mutation is published on. All feed
// subscriptions listen here and re-query with their own filter.
const TopicItems = "items"

// Event represents a broadcast event
type Event struct {
	Type      EventType              `json:"type"`
	Topic     string                 `json:"topic"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Broadcaster defines the interface for fanning out events to subscribers
type Broadcaster interface {
	// Subscribe subscribes a client to events published on a topic.
	// When a client subscribes to multiple topics, all events are delivered
	// to the same channel.
	Subscribe(ctx context.Context, topic string, clientID string, eventChan chan Event) error

	// Unsubscribe removes a client's subscription to a topic
	Unsubscribe(ctx context.Context, topic string, clientID string) error

	// Publish publishes an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, event Event) error

	// IsSubscribed checks if a client is subscribed to a topic
	IsSubscribed(ctx context.Context, topic string, clientID string) bool
}
