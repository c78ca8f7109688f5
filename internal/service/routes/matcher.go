package routes

import (
	"context"

	"github.com/Domenick1991/flightops/internal/domain"
)

// Lookup is the slice of the reference service the route engine needs.
type Lookup interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	ListActiveRoutes(ctx context.Context) ([]domain.Route, error)
}

// SegmentPair is one requested leg of a chain. ConnectionMinutes is the
// ground time after this leg, 0 on the last leg or when unknown.
type SegmentPair struct {
	OriginID          int64
	DestinationID     int64
	ConnectionMinutes int
}

// Matcher finds pre-existing routes that structurally match a request.
// Matching is order-sensitive: A->B never matches an existing B->A route.
type Matcher struct {
	lookup Lookup
}

func NewMatcher(lookup Lookup) *Matcher {
	return &Matcher{lookup: lookup}
}

// FindDirect returns the active single-segment route with exactly this
// origin/destination pair, or nil when none exists.
func (m *Matcher) FindDirect(ctx context.Context, originID, destinationID int64) (*domain.Route, error) {
	active, err := m.lookup.ListActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range active {
		route := &active[i]
		if !route.Active || !route.IsDirect() {
			continue
		}
		seg := route.Segments[0]
		if seg.OriginID == originID && seg.DestinationID == destinationID {
			return route, nil
		}
	}
	return nil, nil
}

// FindChain returns the active multi-segment route whose segments equal the
// requested pairs position by position, or nil when none exists. The request
// is assumed to be continuity-validated already.
func (m *Matcher) FindChain(ctx context.Context, segments []SegmentPair) (*domain.Route, error) {
	if len(segments) < 2 {
		return nil, nil
	}

	active, err := m.lookup.ListActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range active {
		route := &active[i]
		if !route.Active || len(route.Segments) != len(segments) || route.IsDirect() {
			continue
		}
		if chainMatches(route.Segments, segments) {
			return route, nil
		}
	}
	return nil, nil
}

func chainMatches(candidate []domain.RouteSegment, requested []SegmentPair) bool {
	for i := range requested {
		if candidate[i].OriginID != requested[i].OriginID || candidate[i].DestinationID != requested[i].DestinationID {
			return false
		}
	}
	return true
}
