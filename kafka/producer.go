package kafka

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/modaops/datakit/logger"
	"github.com/modaops/datakit/routine"
	"go.uber.org/zap"
)

type defaultProducer struct {
	log    logger.Logger
	p      *kafka.Producer
	runner routine.Runner
	done   chan struct{}
}

// NewProducer creates a kafka producer and starts its delivery-report loop.
// A nil config is rejected because brokers are required.
func NewProducer(log logger.Logger, cfg *ProducerConfig) (Producer, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig("config is required")
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := kafka.NewProducer(cfg.BuildConfigMap())
	if err != nil {
		return nil, ErrConnection(err)
	}

	kp := &defaultProducer{
		log:    log,
		p:      p,
		runner: routine.New(log),
		done:   make(chan struct{}),
	}
	kp.runner.GoNamed("kafka-delivery-reports", kp.handleDeliveryReports)

	log.Info("kafka producer initialized", zap.Strings("brokers", cfg.Brokers))
	return kp, nil
}

// handleDeliveryReports drains the producer event channel so asynchronous
// delivery failures surface in the logs.
func (kp *defaultProducer) handleDeliveryReports() {
	for {
		select {
		case <-kp.done:
			return
		case e := <-kp.p.Events():
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					kp.log.Error("failed to deliver message",
						zap.Error(ev.TopicPartition.Error),
						zap.String("topic", *ev.TopicPartition.Topic),
					)
				} else {
					kp.log.Debug("message delivered",
						zap.String("topic", *ev.TopicPartition.Topic),
						zap.Int32("partition", ev.TopicPartition.Partition),
					)
				}
			case kafka.Error:
				kp.log.Error("kafka producer error",
					zap.Int("code", int(ev.Code())),
					zap.String("error", ev.String()),
				)
			default:
				kp.log.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
			}
		}
	}
}

// Produce enqueues msg for asynchronous delivery.
func (kp *defaultProducer) Produce(ctx context.Context, msg *Message) error {
	if msg.Topic == "" {
		return ErrInvalidMessage("topic is required")
	}
	if msg.Value == nil {
		return ErrInvalidMessage("value is required")
	}

	out := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &msg.Topic,
			Partition: kafka.PartitionAny,
		},
		Key:   msg.Key,
		Value: msg.Value,
	}
	for _, h := range msg.Headers {
		out.Headers = append(out.Headers, kafka.Header{Key: h.Key, Value: h.Value})
	}

	if err := kp.p.Produce(out, nil); err != nil {
		return ErrProduce(msg.Topic, err)
	}
	return nil
}

// Close stops the delivery-report loop, flushes pending messages and
// releases the producer.
func (kp *defaultProducer) Close() error {
	close(kp.done)
	kp.runner.Wait()

	if remaining := kp.p.Flush(10_000); remaining > 0 {
		kp.log.Warn("messages still pending after flush", zap.Int("remaining", remaining))
	}
	kp.p.Close()
	return nil
}
