package reference

import (
	"context"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/Domenick1991/flightops/internal/repository"
	"github.com/Domenick1991/flightops/pkg/logger"
)

// Lookup resolves reference entities for the resolution engine. Lookups
// return (nil, nil) for unknown ids; transport failures propagate unwrapped
// and are never retried here.
type Lookup interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	ListActiveRoutes(ctx context.Context) ([]domain.Route, error)
	GetAirline(ctx context.Context, id int64) (*domain.Airline, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
	InvalidateActiveRoutes(ctx context.Context) error
}

type Cache interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	SetAirport(ctx context.Context, airport *domain.Airport) error
	GetActiveRoutes(ctx context.Context) ([]domain.Route, error)
	SetActiveRoutes(ctx context.Context, routes []domain.Route) error
	InvalidateActiveRoutes(ctx context.Context) error
}

type Service struct {
	refs    repository.ReferenceRepository
	routes  repository.RouteRepository
	cache   Cache
	timeout time.Duration
	log     logger.Logger
}

type ServiceOption func(*Service)

// WithCache enables cache-aside reads for airports and the active route list.
func WithCache(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithTimeout caps every lookup; zero disables the cap.
func WithTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func NewService(refs repository.ReferenceRepository, routes repository.RouteRepository, log logger.Logger, opts ...ServiceOption) *Service {
	service := &Service{
		refs:   refs,
		routes: routes,
		log:    log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if s.cache != nil {
		if cached, err := s.cache.GetAirport(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	airport, err := s.refs.GetAirport(ctx, id)
	if err != nil {
		return nil, err
	}
	if airport != nil && s.cache != nil {
		if err := s.cache.SetAirport(ctx, airport); err != nil {
			s.log.Warn("airport cache write failed", "airport_id", id, "error", err)
		}
	}
	return airport, nil
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	return s.routes.GetByID(ctx, id)
}

func (s *Service) ListActiveRoutes(ctx context.Context) ([]domain.Route, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if s.cache != nil {
		if cached, err := s.cache.GetActiveRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	routes, err := s.routes.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetActiveRoutes(ctx, routes); err != nil {
			s.log.Warn("route cache write failed", "error", err)
		}
	}
	return routes, nil
}

func (s *Service) GetAirline(ctx context.Context, id int64) (*domain.Airline, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	return s.refs.GetAirline(ctx, id)
}

func (s *Service) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	return s.refs.GetAircraft(ctx, id)
}

func (s *Service) InvalidateActiveRoutes(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateActiveRoutes(ctx)
}

var _ Lookup = (*Service)(nil)
