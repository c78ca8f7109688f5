package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceRepository reads airline, aircraft and airport reference data.
// Lookups return (nil, nil) when the entity does not exist.
type ReferenceRepository interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	GetAirline(ctx context.Context, id int64) (*domain.Airline, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
}

type PGReferenceRepository struct {
	db *pgxpool.Pool
}

func NewReferenceRepository(db *pgxpool.Pool) ReferenceRepository {
	return &PGReferenceRepository{db: db}
}

func (r *PGReferenceRepository) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT id, iata_code, icao_code, name, city, country, latitude, longitude, active FROM airports WHERE id=$1`, id)
	var a domain.Airport
	if err := row.Scan(&a.ID, &a.IATACode, &a.ICAOCode, &a.Name, &a.City, &a.Country, &a.Latitude, &a.Longitude, &a.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGReferenceRepository) GetAirline(ctx context.Context, id int64) (*domain.Airline, error) {
	row := r.db.QueryRow(ctx, `SELECT id, iata_code, name, active FROM airlines WHERE id=$1`, id)
	var a domain.Airline
	if err := row.Scan(&a.ID, &a.IATACode, &a.Name, &a.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGReferenceRepository) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	row := r.db.QueryRow(ctx, `SELECT id, tail_number, model, seat_capacity, active FROM aircraft WHERE id=$1`, id)
	var a domain.Aircraft
	if err := row.Scan(&a.ID, &a.TailNumber, &a.Model, &a.SeatCapacity, &a.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

var _ ReferenceRepository = (*PGReferenceRepository)(nil)
