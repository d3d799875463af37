package kafka

import "fmt"

// ErrInvalidConfig kafka configuration error
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("kafka: invalid config: %s", msg)
}

// ErrInvalidMessage message is missing a required field
func ErrInvalidMessage(msg string) error {
	return fmt.Errorf("kafka: invalid message: %s", msg)
}

// ErrConnection kafka connection error
func ErrConnection(err error) error {
	return fmt.Errorf("kafka: connection failed: %w", err)
}

// ErrProduce produce error
func ErrProduce(topic string, err error) error {
	return fmt.Errorf("kafka: produce to topic %s failed: %w", topic, err)
}
