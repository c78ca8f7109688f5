package itinerary

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/stretchr/testify/assert"
)

func segmentsWithStatuses(statuses ...domain.FlightStatus) []domain.Flight {
	segments := make([]domain.Flight, 0, len(statuses))
	for i, status := range statuses {
		segments = append(segments, domain.Flight{ID: int64(i + 1), SegmentNumber: i + 1, Status: status})
	}
	return segments
}

func TestAggregateStatus_CancelledDominates(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusArrived,
		domain.FlightStatusCancelled,
		domain.FlightStatusDeparted,
	)

	assert.Equal(t, domain.FlightStatusCancelled, AggregateStatus(segments))
}

func TestAggregateStatus_AllArrived(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusArrived,
		domain.FlightStatusArrived,
	)

	assert.Equal(t, domain.FlightStatusArrived, AggregateStatus(segments))
}

func TestAggregateStatus_PartialArrivalMeansDeparted(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusArrived,
		domain.FlightStatusScheduled,
	)

	assert.Equal(t, domain.FlightStatusDeparted, AggregateStatus(segments))
}

func TestAggregateStatus_FirstLegDepartedIsEnough(t *testing.T) {
	// Later legs still scheduled: the journey has started, so DEPARTED.
	segments := segmentsWithStatuses(
		domain.FlightStatusDeparted,
		domain.FlightStatusScheduled,
		domain.FlightStatusScheduled,
	)

	assert.Equal(t, domain.FlightStatusDeparted, AggregateStatus(segments))
}

func TestAggregateStatus_BoardingCountsAsDeparted(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusBoarding,
		domain.FlightStatusScheduled,
	)

	assert.Equal(t, domain.FlightStatusDeparted, AggregateStatus(segments))
}

func TestAggregateStatus_ActualDepartureCountsAsDeparted(t *testing.T) {
	departedAt := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	segments := segmentsWithStatuses(domain.FlightStatusDelayed, domain.FlightStatusScheduled)
	segments[0].ActualDeparture = &departedAt

	assert.Equal(t, domain.FlightStatusDeparted, AggregateStatus(segments))
}

func TestAggregateStatus_AnyDelayed(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusScheduled,
		domain.FlightStatusDelayed,
	)

	assert.Equal(t, domain.FlightStatusDelayed, AggregateStatus(segments))
}

func TestAggregateStatus_AllScheduled(t *testing.T) {
	segments := segmentsWithStatuses(
		domain.FlightStatusScheduled,
		domain.FlightStatusScheduled,
	)

	assert.Equal(t, domain.FlightStatusScheduled, AggregateStatus(segments))
}

func TestAggregateStatus_NoSegments(t *testing.T) {
	assert.Equal(t, domain.FlightStatusScheduled, AggregateStatus(nil))
}
