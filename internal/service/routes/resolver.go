package routes

import (
	"context"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/pkg/logger"
)

type CreationMode string

const (
	ModeRoute        CreationMode = "ROUTE"
	ModeAirportPair  CreationMode = "AIRPORT_PAIR"
	ModeSegmentChain CreationMode = "SEGMENT_CHAIN"
)

// ResolveRequest describes how the caller wants a route resolved: by id, by
// endpoint pair, or by an ordered chain of segments.
type ResolveRequest struct {
	Mode          CreationMode
	RouteID       *int64
	OriginID      *int64
	DestinationID *int64
	Segments      []SegmentPair
	ChainLabel    string
}

// RouteUseCase is the single entry point the flight-creation workflow uses to
// turn a request into a route id, reusing an existing route when one matches
// and synthesizing one otherwise.
type RouteUseCase interface {
	Resolve(ctx context.Context, req ResolveRequest) (int64, error)
	ListActive(ctx context.Context) ([]domain.Route, error)
	Deactivate(ctx context.Context, id int64) error
}

type RouteDeactivator interface {
	Deactivate(ctx context.Context, id int64) error
}

type Resolver struct {
	lookup      Lookup
	matcher     *Matcher
	synthesizer *Synthesizer
	deactivator RouteDeactivator
	invalidator CacheInvalidator
	log         logger.Logger
}

type ResolverOption func(*Resolver)

// WithRouteDeactivator enables route deactivation; the invalidator drops the
// cached active-route list after each deactivation and may be nil.
func WithRouteDeactivator(store RouteDeactivator, invalidator CacheInvalidator) ResolverOption {
	return func(r *Resolver) {
		r.deactivator = store
		r.invalidator = invalidator
	}
}

func NewResolver(lookup Lookup, matcher *Matcher, synthesizer *Synthesizer, log logger.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup:      lookup,
		matcher:     matcher,
		synthesizer: synthesizer,
		log:         log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (int64, error) {
	switch req.Mode {
	case ModeRoute:
		return r.resolveByID(ctx, req)
	case ModeAirportPair:
		return r.resolveAirportPair(ctx, req)
	case ModeSegmentChain:
		return r.resolveSegmentChain(ctx, req)
	default:
		return 0, &domain.InvalidRequestError{Reason: "must provide routeId, airport pair, or segment chain"}
	}
}

func (r *Resolver) ListActive(ctx context.Context) ([]domain.Route, error) {
	return r.lookup.ListActiveRoutes(ctx)
}

// Deactivate retires a route. Existing flights keep their route id; the route
// just stops matching and listing.
func (r *Resolver) Deactivate(ctx context.Context, id int64) error {
	if r.deactivator == nil {
		return &domain.InvalidRequestError{Reason: "route deactivation is not enabled"}
	}

	route, err := r.lookup.GetRoute(ctx, id)
	if err != nil {
		return &domain.InvalidReferenceError{Kind: "route", ID: id, Err: err}
	}
	if route == nil {
		return &domain.InvalidRouteError{RouteID: id, Reason: "route does not exist"}
	}
	if !route.Active {
		return nil
	}

	if err := r.deactivator.Deactivate(ctx, id); err != nil {
		return err
	}
	if r.invalidator != nil {
		if err := r.invalidator.InvalidateActiveRoutes(ctx); err != nil {
			r.log.Warn("route cache invalidation failed", "route_id", id, "error", err)
		}
	}
	r.log.Info("route deactivated", "route_id", id, "code", route.Code)
	return nil
}

func (r *Resolver) resolveByID(ctx context.Context, req ResolveRequest) (int64, error) {
	if req.RouteID == nil {
		return 0, &domain.InvalidRequestError{Reason: "must provide routeId, airport pair, or segment chain"}
	}

	route, err := r.lookup.GetRoute(ctx, *req.RouteID)
	if err != nil {
		return 0, &domain.InvalidReferenceError{Kind: "route", ID: *req.RouteID, Err: err}
	}
	if route == nil {
		return 0, &domain.InvalidRouteError{RouteID: *req.RouteID, Reason: "route does not exist"}
	}
	if !route.Active {
		return 0, &domain.InvalidRouteError{RouteID: *req.RouteID, Reason: "route is not active"}
	}
	return route.ID, nil
}

func (r *Resolver) resolveAirportPair(ctx context.Context, req ResolveRequest) (int64, error) {
	if req.OriginID == nil || req.DestinationID == nil {
		return 0, &domain.InvalidRequestError{Reason: "must provide routeId, airport pair, or segment chain"}
	}
	if *req.OriginID == *req.DestinationID {
		return 0, &domain.InvalidRequestError{Reason: "origin and destination airports must differ"}
	}

	existing, err := r.matcher.FindDirect(ctx, *req.OriginID, *req.DestinationID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		r.log.Debug("route reused", "route_id", existing.ID, "code", existing.Code)
		return existing.ID, nil
	}

	created, err := r.synthesizer.CreateDirect(ctx, *req.OriginID, *req.DestinationID)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (r *Resolver) resolveSegmentChain(ctx context.Context, req ResolveRequest) (int64, error) {
	if len(req.Segments) < 2 {
		return 0, &domain.InvalidRequestError{Reason: "a segment chain needs at least 2 segments"}
	}
	for i := 0; i < len(req.Segments)-1; i++ {
		if req.Segments[i].DestinationID != req.Segments[i+1].OriginID {
			return 0, &domain.RouteContinuityError{FromSegment: i + 1, ToSegment: i + 2}
		}
	}

	existing, err := r.matcher.FindChain(ctx, req.Segments)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		r.log.Debug("chain route reused", "route_id", existing.ID, "code", existing.Code)
		return existing.ID, nil
	}

	created, err := r.synthesizer.CreateChain(ctx, req.Segments, req.ChainLabel)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

var _ RouteUseCase = (*Resolver)(nil)
