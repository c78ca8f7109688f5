package routes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/internal/geo"
	"github.com/Domenick1991/flightops/pkg/logger"
)

type RouteStore interface {
	Create(ctx context.Context, route *domain.Route) error
}

type CacheInvalidator interface {
	InvalidateActiveRoutes(ctx context.Context) error
}

// Synthesizer builds and persists new routes from airport endpoints when no
// existing route matches.
type Synthesizer struct {
	lookup      Lookup
	store       RouteStore
	invalidator CacheInvalidator
	log         logger.Logger
	now         func() time.Time
}

type SynthesizerOption func(*Synthesizer)

// WithCacheInvalidator drops the cached active-route list after creation.
func WithCacheInvalidator(invalidator CacheInvalidator) SynthesizerOption {
	return func(s *Synthesizer) {
		s.invalidator = invalidator
	}
}

// WithClock overrides the timestamp source used in route codes.
func WithClock(now func() time.Time) SynthesizerOption {
	return func(s *Synthesizer) {
		s.now = now
	}
}

func NewSynthesizer(lookup Lookup, store RouteStore, log logger.Logger, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		lookup: lookup,
		store:  store,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDirect synthesizes a single-segment route between two airports.
func (s *Synthesizer) CreateDirect(ctx context.Context, originID, destinationID int64) (*domain.Route, error) {
	origin, destination, err := s.endpoints(ctx, originID, destinationID)
	if err != nil {
		return nil, err
	}

	kind := domain.RouteKindInternational
	if origin.Country == destination.Country {
		kind = domain.RouteKindDomestic
	}

	distance := geo.AirportDistanceKm(origin, destination, kind)
	minutes := geo.FlightMinutes(distance)

	route := &domain.Route{
		Code:             fmt.Sprintf("%s-%s-D%s", origin.IATACode, destination.IATACode, shortTimestamp(s.now())),
		Name:             fmt.Sprintf("%s to %s", origin.Name, destination.Name),
		Kind:             kind,
		DistanceKm:       distance,
		EstimatedMinutes: minutes,
		Active:           true,
		Segments: []domain.RouteSegment{{
			Order:            1,
			OriginID:         originID,
			DestinationID:    destinationID,
			DistanceKm:       distance,
			EstimatedMinutes: minutes,
			Active:           true,
		}},
	}

	if err := s.persist(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// CreateChain synthesizes a multi-segment route. Connection gaps between legs
// count toward the route's time estimate but are not stored on segments.
func (s *Synthesizer) CreateChain(ctx context.Context, segments []SegmentPair, label string) (*domain.Route, error) {
	if len(segments) < 2 {
		return nil, &domain.InvalidRequestError{Reason: "a chain route needs at least 2 segments"}
	}

	airports := make(map[int64]*domain.Airport, len(segments)+1)
	for _, pair := range segments {
		for _, id := range []int64{pair.OriginID, pair.DestinationID} {
			if _, seen := airports[id]; seen {
				continue
			}
			airport, err := s.activeAirport(ctx, id)
			if err != nil {
				return nil, err
			}
			airports[id] = airport
		}
		if pair.OriginID == pair.DestinationID {
			return nil, &domain.InvalidReferenceError{Kind: "airport", ID: pair.OriginID}
		}
	}

	kind := chainKind(segments, airports)

	var totalDistance float64
	var totalMinutes int
	routeSegments := make([]domain.RouteSegment, 0, len(segments))
	for i, pair := range segments {
		distance := geo.AirportDistanceKm(airports[pair.OriginID], airports[pair.DestinationID], kind)
		minutes := geo.FlightMinutes(distance)
		totalDistance += distance
		totalMinutes += minutes
		if i < len(segments)-1 {
			totalMinutes += pair.ConnectionMinutes
		}
		routeSegments = append(routeSegments, domain.RouteSegment{
			Order:            i + 1,
			OriginID:         pair.OriginID,
			DestinationID:    pair.DestinationID,
			DistanceKm:       distance,
			EstimatedMinutes: minutes,
			Active:           true,
		})
	}

	first := airports[segments[0].OriginID]
	last := airports[segments[len(segments)-1].DestinationID]
	name := label
	if name == "" {
		name = fmt.Sprintf("%s to %s", first.Name, last.Name)
	}

	route := &domain.Route{
		Code:             fmt.Sprintf("%s-%s-M%d-%s", first.IATACode, last.IATACode, len(segments), shortTimestamp(s.now())),
		Name:             name,
		Kind:             kind,
		DistanceKm:       totalDistance,
		EstimatedMinutes: totalMinutes,
		Active:           true,
		Segments:         routeSegments,
	}

	if err := s.persist(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *Synthesizer) endpoints(ctx context.Context, originID, destinationID int64) (*domain.Airport, *domain.Airport, error) {
	if originID == destinationID {
		return nil, nil, &domain.InvalidReferenceError{Kind: "airport", ID: originID}
	}
	origin, err := s.activeAirport(ctx, originID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := s.activeAirport(ctx, destinationID)
	if err != nil {
		return nil, nil, err
	}
	return origin, destination, nil
}

func (s *Synthesizer) activeAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	airport, err := s.lookup.GetAirport(ctx, id)
	if err != nil {
		return nil, &domain.InvalidReferenceError{Kind: "airport", ID: id, Err: err}
	}
	if airport == nil || !airport.Active {
		return nil, &domain.InvalidReferenceError{Kind: "airport", ID: id}
	}
	return airport, nil
}

// persist writes the route atomically; any storage failure surfaces as a
// RouteCreationError with the partial write already rolled back.
func (s *Synthesizer) persist(ctx context.Context, route *domain.Route) error {
	if err := s.store.Create(ctx, route); err != nil {
		return &domain.RouteCreationError{Err: err}
	}

	s.log.Info("route synthesized", "route_id", route.ID, "code", route.Code, "segments", len(route.Segments))

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateActiveRoutes(ctx); err != nil {
			s.log.Warn("route cache invalidation failed", "route_id", route.ID, "error", err)
		}
	}
	return nil
}

// chainKind is DOMESTIC only when every airport on the chain is in the same
// country.
func chainKind(segments []SegmentPair, airports map[int64]*domain.Airport) domain.RouteKind {
	country := airports[segments[0].OriginID].Country
	for _, airport := range airports {
		if airport.Country != country {
			return domain.RouteKindInternational
		}
	}
	return domain.RouteKindDomestic
}

func shortTimestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 36)
}
