package domain

import "time"

type RouteKind string

const (
	RouteKindDomestic      RouteKind = "DOMESTIC"
	RouteKindInternational RouteKind = "INTERNATIONAL"
)

// Route is an ordered list of segments between airports. A route with one
// segment is direct, more than one is multi-segment. Routes are directional:
// A->B and B->A are different routes.
type Route struct {
	ID               int64
	Code             string
	Name             string
	Kind             RouteKind
	DistanceKm       float64
	EstimatedMinutes int
	Active           bool
	Segments         []RouteSegment
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r *Route) IsDirect() bool {
	return len(r.Segments) == 1
}

// Origin returns the airport id the route starts from, 0 for an empty route.
func (r *Route) Origin() int64 {
	if len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[0].OriginID
}

// Destination returns the airport id the route ends at, 0 for an empty route.
func (r *Route) Destination() int64 {
	if len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[len(r.Segments)-1].DestinationID
}

// RouteSegment is owned by its route; orders form a contiguous 1..N sequence
// and segment[i].DestinationID == segment[i+1].OriginID.
type RouteSegment struct {
	Order            int
	OriginID         int64
	DestinationID    int64
	DistanceKm       float64
	EstimatedMinutes int
	Active           bool
}
