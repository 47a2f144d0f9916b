package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mpopescu/skybooker/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	FindByKey(ctx context.Context, key domain.Flight) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, origin, destination, departure_time, return_time, airline, airline_return, price_cents, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlightFields(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	return scanFlight(row)
}

// FindByKey looks for a catalog entry structurally identical to the
// given offer: same route, dates, airlines and price. Used to collapse
// duplicates when ingesting from the external provider.
func (r *PGFlightRepository) FindByKey(ctx context.Context, key domain.Flight) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_time=$3
		AND return_time IS NOT DISTINCT FROM $4
		AND airline=$5 AND airline_return=$6 AND price_cents=$7`,
		key.Origin, key.Destination, key.DepartureTime, key.ReturnTime, key.Airline, key.AirlineReturn, key.PriceCents)
	return scanFlight(row)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (origin, destination, departure_time, return_time, airline, airline_return, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		flight.Origin, flight.Destination, flight.DepartureTime, flight.ReturnTime, flight.Airline, flight.AirlineReturn, flight.PriceCents).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET origin=$1, destination=$2, departure_time=$3, return_time=$4, airline=$5, airline_return=$6, price_cents=$7, updated_at=now() WHERE id=$8`,
		flight.Origin, flight.Destination, flight.DepartureTime, flight.ReturnTime, flight.Airline, flight.AirlineReturn, flight.PriceCents, flight.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := scanFlightFields(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func scanFlightFields(row pgx.Row, f *domain.Flight) error {
	var ret *time.Time
	if err := row.Scan(&f.ID, &f.Origin, &f.Destination, &f.DepartureTime, &ret, &f.Airline, &f.AirlineReturn, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return err
	}
	f.ReturnTime = ret
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
