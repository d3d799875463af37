package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/modaops/datakit/coordinator"
	"github.com/modaops/datakit/kafka"
	"github.com/modaops/datakit/logger"
	"github.com/modaops/datakit/routine"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

// FeedConfig is the configuration for the snapshot feed
type FeedConfig struct {
	// Topic to publish snapshot updates to (required)
	Topic string `mapstructure:"topic"`
	// BufferSize is the initial capacity of the publish buffer
	// default: 16
	BufferSize int `mapstructure:"buffer_size"`
}

// DefaultFeedConfig returns the default feed configuration
func DefaultFeedConfig() *FeedConfig {
	return &FeedConfig{BufferSize: 16}
}

// MergeDefaults fills zero-valued fields from the defaults and returns the
// merged configuration
func (c *FeedConfig) MergeDefaults() *FeedConfig {
	if c.BufferSize == 0 {
		c.BufferSize = DefaultFeedConfig().BufferSize
	}
	return c
}

// Validate validates the configuration
func (c *FeedConfig) Validate() error {
	if c.Topic == "" {
		return ErrInvalidConfig("topic is required")
	}
	if c.BufferSize < 1 {
		return ErrInvalidConfig("buffer_size must be >= 1")
	}
	return nil
}

// feedEvent is the published message body.
type feedEvent struct {
	Resource  string    `json:"resource"`
	FetchedAt time.Time `json:"fetched_at"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// Feed republishes every successful snapshot update to Kafka, so pipeline
// services see the same data the dashboard shows.
//
// The coordinator notification path must stay fast, so the subscriber only
// enqueues into an unbounded channel; a background goroutine does the
// marshalling and producing.
type Feed struct {
	log      logger.Logger
	coord    *coordinator.Coordinator[Snapshot]
	producer kafka.Producer
	topic    string
	runner   routine.Runner
	events   *chanx.UnboundedChan[feedEvent]

	mu            sync.Mutex
	started       bool
	closed        bool
	lastPublished time.Time
	unsubscribe   func()
}

// NewFeed creates a snapshot feed over an existing producer. Call Start to
// begin publishing.
func NewFeed(
	log logger.Logger,
	coord *coordinator.Coordinator[Snapshot],
	producer kafka.Producer,
	cfg *FeedConfig,
) (*Feed, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig("config is required")
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if coord == nil {
		return nil, ErrInvalidConfig("coordinator is required")
	}
	if producer == nil {
		return nil, ErrInvalidConfig("producer is required")
	}

	return &Feed{
		log:      log,
		coord:    coord,
		producer: producer,
		topic:    cfg.Topic,
		runner:   routine.New(log),
		events:   chanx.NewUnboundedChan[feedEvent](context.Background(), cfg.BufferSize),
	}, nil
}

// Start subscribes to the coordinator and starts the publish loop. Calling
// Start more than once is a no-op.
func (f *Feed) Start() {
	f.mu.Lock()
	if f.started || f.closed {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.mu.Unlock()

	f.unsubscribe = f.coord.Subscribe(f.onNotify)
	f.runner.GoNamed("analytics-feed", f.publishLoop)
	f.log.Info("analytics feed started", zap.String("topic", f.topic))
}

// onNotify enqueues a feed event when the transition carries a new
// successful snapshot. Loading transitions, failed passes and repeat
// notifications for the same fetch are skipped.
func (f *Feed) onNotify() {
	st := f.coord.State()
	if st.Loading || st.Err != nil || st.Data == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || !st.FetchedAt.After(f.lastPublished) {
		return
	}
	f.lastPublished = st.FetchedAt
	f.events.In <- feedEvent{
		Resource:  ResourceName,
		FetchedAt: st.FetchedAt,
		Snapshot:  *st.Data,
	}
}

func (f *Feed) publishLoop() {
	for ev := range f.events.Out {
		body, err := json.Marshal(ev)
		if err != nil {
			f.log.Error("failed to marshal feed event", zap.Error(err))
			continue
		}
		err = f.producer.Produce(context.Background(), &kafka.Message{
			Topic: f.topic,
			Key:   []byte(ev.Resource),
			Value: body,
		})
		if err != nil {
			f.log.Error("failed to publish feed event", zap.Error(err))
		}
	}
}

// Close unsubscribes, drains pending events and stops the publish loop.
// It does not close the producer; the caller owns it.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	started := f.started
	if !started {
		// The buffer goroutine exists from construction; shut it down even
		// when the feed never started.
		close(f.events.In)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.unsubscribe()

	f.mu.Lock()
	close(f.events.In)
	f.mu.Unlock()

	f.runner.Wait()
	f.log.Info("analytics feed stopped")
}
