// Package kafka provides the kit's Kafka producer.
//
// Only the publish side lives here: the kit emits events (analytics feed
// updates and the like) for dashboard services to consume with their own
// tooling.
package kafka

import "context"

// Message is one event to publish.
type Message struct {
	// Topic to publish to (required)
	Topic string
	// Key selects the partition; events with the same key stay ordered
	Key []byte
	// Value is the message payload (required)
	Value []byte
	// Headers are optional metadata pairs
	Headers []Header
}

// Header is a message metadata pair.
type Header struct {
	Key   string
	Value []byte
}

// Producer publishes messages to Kafka.
type Producer interface {
	// Produce enqueues msg for asynchronous delivery. Delivery failures are
	// reported through the logger, not to the caller.
	Produce(ctx context.Context, msg *Message) error
	// Close flushes pending messages and releases the producer.
	Close() error
}
