package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrVersionConflict is returned when an itinerary update loses the optimistic
// version check against a concurrent writer.
var ErrVersionConflict = errors.New("itinerary was modified concurrently")

// InvalidRequestError marks a malformed request: missing creation-mode data,
// bad segment counts, non-contiguous segment numbers.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// InvalidReferenceError marks an unknown or inactive airport, airline,
// aircraft or route. Err carries the underlying lookup failure when the
// reference service itself failed.
type InvalidReferenceError struct {
	Kind string
	ID   int64
	Err  error
}

func (e *InvalidReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s reference %d: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("unknown or inactive %s %d", e.Kind, e.ID)
}

func (e *InvalidReferenceError) Unwrap() error { return e.Err }

// InvalidRouteError marks a supplied route id that does not resolve to an
// active route.
type InvalidRouteError struct {
	RouteID int64
	Reason  string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("route %d: %s", e.RouteID, e.Reason)
}

// RouteContinuityError marks adjacent legs whose endpoints do not connect.
// Indices are 1-based segment numbers.
type RouteContinuityError struct {
	FromSegment int
	ToSegment   int
}

func (e *RouteContinuityError) Error() string {
	return fmt.Sprintf("segment %d does not connect to segment %d: arrival airport differs from next departure airport", e.FromSegment, e.ToSegment)
}

// ConnectionTimingError marks a connection gap outside the allowed window or
// a schedule that does not strictly increase between legs.
type ConnectionTimingError struct {
	FromSegment int
	ToSegment   int
	GapMinutes  int
	Reason      string // "too tight", "too long" or "non-increasing"
}

func (e *ConnectionTimingError) Error() string {
	return fmt.Sprintf("connection between segments %d and %d is %s (%d minutes)", e.FromSegment, e.ToSegment, e.Reason, e.GapMinutes)
}

// DuplicateFlightError marks a flight number already used as a main connecting
// flight on the same date.
type DuplicateFlightError struct {
	Number string
	Date   time.Time
}

func (e *DuplicateFlightError) Error() string {
	return fmt.Sprintf("flight %s already exists on %s", e.Number, e.Date.Format("2006-01-02"))
}

// RouteCreationError marks a failed route synthesis; the partial write has
// already been rolled back when this is returned.
type RouteCreationError struct {
	Err error
}

func (e *RouteCreationError) Error() string {
	return fmt.Sprintf("route creation failed: %v", e.Err)
}

func (e *RouteCreationError) Unwrap() error { return e.Err }

// ImmutableAfterDepartureError marks an update or delete attempted after the
// itinerary, or any of its segments, has departed.
type ImmutableAfterDepartureError struct {
	FlightID int64
}

func (e *ImmutableAfterDepartureError) Error() string {
	return fmt.Sprintf("flight %d has already departed and can no longer be modified", e.FlightID)
}
