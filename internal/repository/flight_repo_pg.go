package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightops/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `id, number, route_id, airline_id, aircraft_id, flight_date, scheduled_departure, scheduled_arrival, actual_departure, actual_arrival, status, parent_flight_id, segment_number, is_connecting, passenger_capacity, cargo_capacity_kg, version, created_at, updated_at`

type FlightRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetChildren(ctx context.Context, mainID int64) ([]domain.Flight, error)
	GetConnections(ctx context.Context, mainID int64) ([]domain.FlightConnection, error)
	// ConnectingFlightExists reports whether another main connecting flight
	// already uses the number on the date. excludeID skips the flight being
	// updated; pass 0 on create.
	ConnectingFlightExists(ctx context.Context, number string, date time.Time, excludeID int64) (bool, error)
	// CreateItinerary persists the main flight, its children and connection
	// rows in one transaction. Children and connections are matched by
	// segment order; parent and segment flight ids are filled in here.
	CreateItinerary(ctx context.Context, main *domain.Flight, children []domain.Flight, connections []domain.FlightConnection) error
	// ReplaceItinerary atomically swaps all children and connections of an
	// existing itinerary. The main row is updated only if its version still
	// equals expectedVersion; otherwise domain.ErrVersionConflict.
	ReplaceItinerary(ctx context.Context, main *domain.Flight, expectedVersion int64, children []domain.Flight, connections []domain.FlightConnection) error
	DeleteItinerary(ctx context.Context, mainID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) error
	// SetActualTimes records actual departure/arrival, never overwriting a
	// value that is already set.
	SetActualTimes(ctx context.Context, id int64, departure, arrival *time.Time) error
	ListConnectingMains(ctx context.Context, statuses []domain.FlightStatus) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Number, &f.RouteID, &f.AirlineID, &f.AircraftID, &f.FlightDate,
		&f.ScheduledDeparture, &f.ScheduledArrival, &f.ActualDeparture, &f.ActualArrival,
		&f.Status, &f.ParentFlightID, &f.SegmentNumber, &f.IsConnecting,
		&f.PassengerCapacity, &f.CargoCapacityKg, &f.Version, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetChildren(ctx context.Context, mainID int64) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE parent_flight_id=$1 ORDER BY segment_number`, mainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		children = append(children, f)
	}
	return children, rows.Err()
}

func (r *PGFlightRepository) GetConnections(ctx context.Context, mainID int64) ([]domain.FlightConnection, error) {
	rows, err := r.db.Query(ctx, `SELECT id, main_flight_id, segment_flight_id, segment_order, connection_minutes FROM flight_connections WHERE main_flight_id=$1 ORDER BY segment_order`, mainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	connections := make([]domain.FlightConnection, 0)
	for rows.Next() {
		var c domain.FlightConnection
		if err := rows.Scan(&c.ID, &c.MainFlightID, &c.SegmentFlightID, &c.SegmentOrder, &c.ConnectionMinutes); err != nil {
			return nil, err
		}
		connections = append(connections, c)
	}
	return connections, rows.Err()
}

func (r *PGFlightRepository) ConnectingFlightExists(ctx context.Context, number string, date time.Time, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE number=$1 AND flight_date=$2 AND is_connecting AND id <> $3)`,
		number, date, excludeID).Scan(&exists)
	return exists, err
}

func (r *PGFlightRepository) CreateItinerary(ctx context.Context, main *domain.Flight, children []domain.Flight, connections []domain.FlightConnection) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertFlight(ctx, tx, main); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, main.ID, children, connections); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightRepository) ReplaceItinerary(ctx context.Context, main *domain.Flight, expectedVersion int64, children []domain.Flight, connections []domain.FlightConnection) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE flights SET number=$1, route_id=$2, airline_id=$3, aircraft_id=$4, flight_date=$5,
		scheduled_departure=$6, scheduled_arrival=$7, status=$8, passenger_capacity=$9, cargo_capacity_kg=$10,
		version=version+1, updated_at=now()
		WHERE id=$11 AND version=$12`,
		main.Number, main.RouteID, main.AirlineID, main.AircraftID, main.FlightDate,
		main.ScheduledDeparture, main.ScheduledArrival, main.Status, main.PassengerCapacity, main.CargoCapacityKg,
		main.ID, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM flight_connections WHERE main_flight_id=$1`, main.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flights WHERE parent_flight_id=$1`, main.ID); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, main.ID, children, connections); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightRepository) DeleteItinerary(ctx context.Context, mainID int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM flight_connections WHERE main_flight_id=$1`, mainID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flights WHERE parent_flight_id=$1`, mainID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, mainID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("flight not found")
	}

	return tx.Commit(ctx)
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("flight not found")
	}
	return nil
}

func (r *PGFlightRepository) SetActualTimes(ctx context.Context, id int64, departure, arrival *time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE flights SET actual_departure=COALESCE(actual_departure, $1), actual_arrival=COALESCE(actual_arrival, $2), updated_at=now() WHERE id=$3`,
		departure, arrival, id)
	return err
}

func (r *PGFlightRepository) ListConnectingMains(ctx context.Context, statuses []domain.FlightStatus) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE is_connecting AND status = ANY($1) ORDER BY flight_date, id`, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func insertFlight(ctx context.Context, tx pgx.Tx, f *domain.Flight) error {
	return tx.QueryRow(ctx, `INSERT INTO flights (number, route_id, airline_id, aircraft_id, flight_date, scheduled_departure, scheduled_arrival, actual_departure, actual_arrival, status, parent_flight_id, segment_number, is_connecting, passenger_capacity, cargo_capacity_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, version, created_at, updated_at`,
		f.Number, f.RouteID, f.AirlineID, f.AircraftID, f.FlightDate,
		f.ScheduledDeparture, f.ScheduledArrival, f.ActualDeparture, f.ActualArrival,
		f.Status, f.ParentFlightID, f.SegmentNumber, f.IsConnecting,
		f.PassengerCapacity, f.CargoCapacityKg).
		Scan(&f.ID, &f.Version, &f.CreatedAt, &f.UpdatedAt)
}

// insertChildren writes segment flights and their connection rows, wiring
// parent and segment flight ids. Connections are matched to children by
// segment order; both slices must cover the same orders.
func insertChildren(ctx context.Context, tx pgx.Tx, mainID int64, children []domain.Flight, connections []domain.FlightConnection) error {
	idByOrder := make(map[int]int64, len(children))
	for i := range children {
		child := &children[i]
		child.ParentFlightID = &mainID
		if err := insertFlight(ctx, tx, child); err != nil {
			return err
		}
		idByOrder[child.SegmentNumber] = child.ID
	}

	for i := range connections {
		conn := &connections[i]
		segmentID, ok := idByOrder[conn.SegmentOrder]
		if !ok {
			return errors.New("connection order has no matching segment flight")
		}
		conn.MainFlightID = mainID
		conn.SegmentFlightID = segmentID
		if err := tx.QueryRow(ctx, `INSERT INTO flight_connections (main_flight_id, segment_flight_id, segment_order, connection_minutes)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			conn.MainFlightID, conn.SegmentFlightID, conn.SegmentOrder, conn.ConnectionMinutes).Scan(&conn.ID); err != nil {
			return err
		}
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
