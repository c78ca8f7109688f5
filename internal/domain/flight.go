package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

// Flight is either a standalone flight (SegmentNumber 0, no parent), the main
// record of a connecting itinerary (IsConnecting, SegmentNumber 0), or a child
// segment of one (ParentFlightID set, SegmentNumber 1..N). A child is never
// itself connecting.
type Flight struct {
	ID                 int64
	Number             string
	RouteID            *int64
	AirlineID          int64
	AircraftID         int64
	FlightDate         time.Time
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	ActualDeparture    *time.Time
	ActualArrival      *time.Time
	Status             FlightStatus
	ParentFlightID     *int64
	SegmentNumber      int
	IsConnecting       bool
	PassengerCapacity  int
	CargoCapacityKg    int
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasDeparted reports whether the flight has left the gate; once true the
// itinerary it belongs to can no longer be updated or deleted.
func (f *Flight) HasDeparted() bool {
	if f == nil {
		return false
	}
	if f.ActualDeparture != nil {
		return true
	}
	return f.Status == FlightStatusDeparted || f.Status == FlightStatusArrived
}

// FlightConnection records one segment of a connecting itinerary and the gap
// to the next segment. ConnectionMinutes is nil on the last segment. Rows are
// owned by the main flight and rebuilt as a set whenever segments change.
type FlightConnection struct {
	ID                int64
	MainFlightID      int64
	SegmentFlightID   int64
	SegmentOrder      int
	ConnectionMinutes *int
}
