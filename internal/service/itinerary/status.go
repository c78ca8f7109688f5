package itinerary

import "github.com/Domenick1991/flightops/internal/domain"

// AggregateStatus derives the itinerary-level status from its segment
// statuses. Precedence: any cancelled segment cancels the whole itinerary;
// all segments arrived means arrived; any segment under way (boarding,
// departed, or already arrived while others are not) means departed; any
// delayed segment means delayed; otherwise scheduled.
//
// A single departed first leg is enough for DEPARTED even when later legs are
// still scheduled: the aggregate answers "has this journey started", not
// "are all legs en route".
func AggregateStatus(segments []domain.Flight) domain.FlightStatus {
	if len(segments) == 0 {
		return domain.FlightStatusScheduled
	}

	arrived := 0
	underway := false
	delayed := false
	for i := range segments {
		seg := &segments[i]
		switch seg.Status {
		case domain.FlightStatusCancelled:
			return domain.FlightStatusCancelled
		case domain.FlightStatusArrived:
			arrived++
			underway = true
		case domain.FlightStatusDeparted, domain.FlightStatusBoarding:
			underway = true
		case domain.FlightStatusDelayed:
			delayed = true
		}
		if seg.ActualDeparture != nil {
			underway = true
		}
	}

	switch {
	case arrived == len(segments):
		return domain.FlightStatusArrived
	case underway:
		return domain.FlightStatusDeparted
	case delayed:
		return domain.FlightStatusDelayed
	default:
		return domain.FlightStatusScheduled
	}
}

// openStatuses are the main-flight statuses the worker sweep still recomputes.
func openStatuses() []domain.FlightStatus {
	return []domain.FlightStatus{
		domain.FlightStatusScheduled,
		domain.FlightStatusDelayed,
		domain.FlightStatusBoarding,
		domain.FlightStatusDeparted,
	}
}
