package archive

import (
	"context"

	"github.com/Domenick1991/flightops/internal/kafka"
	"github.com/Domenick1991/flightops/pkg/logger"
)

// Archiver is the worker-side sink for flight events; it writes an audit
// trail of itinerary lifecycle changes.
type Archiver struct {
	log logger.Logger
}

func NewArchiver(log logger.Logger) *Archiver {
	return &Archiver{log: log.With("component", "archiver")}
}

func (a *Archiver) Record(ctx context.Context, event kafka.FlightEvent) error {
	a.log.Info("flight event archived",
		"event_id", event.ID,
		"type", event.Type,
		"main_flight_id", event.MainFlightID,
		"number", event.FlightNumber,
		"date", event.FlightDate,
		"status", event.Status,
		"segments", event.SegmentCount,
	)
	return nil
}
