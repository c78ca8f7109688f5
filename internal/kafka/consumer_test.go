package kafka

import (
	"encoding/json"
	"testing"

	"github.com/Domenick1991/flightops/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewConsumer(t *testing.T) {
	consumer := NewConsumer([]string{"localhost:9092"}, "flightops-worker", "flight-events", logger.NewNop())

	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
	assert.NoError(t, consumer.Close())
}

func TestDecodeFlightEvent(t *testing.T) {
	original := NewFlightEvent("itinerary_created")
	original.MainFlightID = 500
	original.FlightNumber = "TK100"
	original.Status = "SCHEDULED"
	payload, _ := json.Marshal(original)

	event, err := decodeFlightEvent(payload)

	assert.NoError(t, err)
	assert.Equal(t, original.ID, event.ID)
	assert.Equal(t, "itinerary_created", event.Type)
	assert.Equal(t, int64(500), event.MainFlightID)
	assert.Equal(t, "TK100", event.FlightNumber)
}

func TestDecodeFlightEvent_BadPayload(t *testing.T) {
	_, err := decodeFlightEvent([]byte("not json"))

	assert.Error(t, err)
}
