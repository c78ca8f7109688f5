package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RouteRepository interface {
	// Create persists the route and all its segments in one transaction.
	Create(ctx context.Context, route *domain.Route) error
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	ListActive(ctx context.Context) ([]domain.Route, error)
	Deactivate(ctx context.Context, id int64) error
}

type PGRouteRepository struct {
	db *pgxpool.Pool
}

func NewRouteRepository(db *pgxpool.Pool) RouteRepository {
	return &PGRouteRepository{db: db}
}

func (r *PGRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	if len(route.Segments) == 0 {
		return errors.New("route has no segments")
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO routes (code, name, kind, distance_km, estimated_minutes, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		route.Code, route.Name, route.Kind, route.DistanceKm, route.EstimatedMinutes, route.Active).
		Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt); err != nil {
		return err
	}

	for i := range route.Segments {
		seg := &route.Segments[i]
		if _, err := tx.Exec(ctx, `INSERT INTO route_segments (route_id, segment_order, origin_airport_id, destination_airport_id, distance_km, estimated_minutes, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			route.ID, seg.Order, seg.OriginID, seg.DestinationID, seg.DistanceKm, seg.EstimatedMinutes, seg.Active); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, name, kind, distance_km, estimated_minutes, active, created_at, updated_at FROM routes WHERE id=$1`, id)
	var route domain.Route
	if err := row.Scan(&route.ID, &route.Code, &route.Name, &route.Kind, &route.DistanceKm, &route.EstimatedMinutes, &route.Active, &route.CreatedAt, &route.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	segments, err := r.segmentsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	route.Segments = segments
	return &route, nil
}

func (r *PGRouteRepository) ListActive(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, kind, distance_km, estimated_minutes, active, created_at, updated_at FROM routes WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(&route.ID, &route.Code, &route.Name, &route.Kind, &route.DistanceKm, &route.EstimatedMinutes, &route.Active, &route.CreatedAt, &route.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routes {
		segments, err := r.segmentsFor(ctx, routes[i].ID)
		if err != nil {
			return nil, err
		}
		routes[i].Segments = segments
	}
	return routes, nil
}

func (r *PGRouteRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE routes SET active=false, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("route not found")
	}
	return nil
}

func (r *PGRouteRepository) segmentsFor(ctx context.Context, routeID int64) ([]domain.RouteSegment, error) {
	rows, err := r.db.Query(ctx, `SELECT segment_order, origin_airport_id, destination_airport_id, distance_km, estimated_minutes, active FROM route_segments WHERE route_id=$1 ORDER BY segment_order`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []domain.RouteSegment
	for rows.Next() {
		var seg domain.RouteSegment
		if err := rows.Scan(&seg.Order, &seg.OriginID, &seg.DestinationID, &seg.DistanceKm, &seg.EstimatedMinutes, &seg.Active); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

var _ RouteRepository = (*PGRouteRepository)(nil)
