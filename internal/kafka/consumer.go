package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightops/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Consumer reads flight events for the archival worker. Messages that do not
// decode as FlightEvent are logged and skipped; the stream keeps moving.
type Consumer struct {
	reader *kafka.Reader
	log    logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks delivering decoded flight events to the handler until the
// context is canceled, the reader fails, or the handler returns an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, FlightEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeFlightEvent(msg.Value)
		if err != nil {
			c.log.Warn("skipping undecodable flight event", "offset", msg.Offset, "error", err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeFlightEvent(value []byte) (FlightEvent, error) {
	var event FlightEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return FlightEvent{}, err
	}
	return event, nil
}
