package kafka

import (
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// ProducerConfig is the configuration for the kafka producer
type ProducerConfig struct {
	// Brokers of the kafka cluster (required)
	Brokers []string `mapstructure:"brokers"`

	// ClientID identifies this producer in broker logs and metrics
	ClientID string `mapstructure:"client_id"`

	// Acks: "all"/"-1" (wait for ISR), "1" (leader only), "0" (fire and
	// forget)
	// default: "all"
	Acks string `mapstructure:"acks"`

	// Compression: none, gzip, snappy, lz4, zstd
	// default: "none"
	Compression string `mapstructure:"compression"`

	// LingerMs is how long the producer waits to batch messages before
	// sending, in milliseconds
	// default: 0 (send immediately)
	LingerMs int `mapstructure:"linger_ms"`

	// MaxRetries for failed sends
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`

	// SecurityProtocol: only "PLAINTEXT" is supported for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`
}

// DefaultProducerConfig returns the default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Acks:             "all",
		Compression:      "none",
		LingerMs:         0,
		MaxRetries:       3,
		SecurityProtocol: "PLAINTEXT",
	}
}

// MergeDefaults fills zero-valued fields from the defaults and returns the
// merged configuration
func (p *ProducerConfig) MergeDefaults() *ProducerConfig {
	defaults := DefaultProducerConfig()
	if p.Acks == "" {
		p.Acks = defaults.Acks
	}
	if p.Compression == "" {
		p.Compression = defaults.Compression
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = defaults.MaxRetries
	}
	if p.SecurityProtocol == "" {
		p.SecurityProtocol = defaults.SecurityProtocol
	}
	return p
}

// Validate validates the producer configuration
func (p *ProducerConfig) Validate() error {
	if len(p.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if !strings.EqualFold(p.SecurityProtocol, "PLAINTEXT") {
		return ErrInvalidConfig("only PLAINTEXT security protocol is supported")
	}
	return nil
}

// BuildConfigMap translates the configuration to librdkafka properties
func (p *ProducerConfig) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(p.Brokers, ","),
		"acks":              strings.ToLower(p.Acks),
		"compression.type":  strings.ToLower(p.Compression),
		"linger.ms":         p.LingerMs,
		"retries":           p.MaxRetries,
		"security.protocol": p.SecurityProtocol,
	}
	if p.ClientID != "" {
		_ = configMap.SetKey("client.id", p.ClientID)
	}
	return configMap
}
