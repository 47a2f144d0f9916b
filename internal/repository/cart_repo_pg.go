package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mpopescu/skybooker/internal/domain"
)

type CartRepository interface {
	AddOrIncrement(ctx context.Context, userID, flightID int64, quantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, userID, itemID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItemWithFlight, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

type PGCartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) CartRepository {
	return &PGCartRepository{db: db}
}

// AddOrIncrement upserts on the (user_id, flight_id) uniqueness so two
// adds of the same flight end up as one row with a summed quantity.
func (r *PGCartRepository) AddOrIncrement(ctx context.Context, userID, flightID int64, quantity int) (*domain.CartItem, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO cart_items (user_id, flight_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, flight_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id, user_id, flight_id, quantity, created_at, updated_at`, userID, flightID, quantity)
	return scanCartItem(row)
}

func (r *PGCartRepository) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error) {
	row := r.db.QueryRow(ctx, `UPDATE cart_items SET quantity=$1, updated_at=now()
		WHERE id=$2 AND user_id=$3
		RETURNING id, user_id, flight_id, quantity, created_at, updated_at`, quantity, itemID, userID)
	return scanCartItem(row)
}

func (r *PGCartRepository) Delete(ctx context.Context, userID, itemID int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGCartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartItemWithFlight, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.user_id, c.flight_id, c.quantity, c.created_at, c.updated_at,
		f.id, f.origin, f.destination, f.departure_time, f.return_time, f.airline, f.airline_return, f.price_cents, f.created_at, f.updated_at
		FROM cart_items c
		LEFT JOIN flights f ON f.id = c.flight_id
		WHERE c.user_id=$1
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CartItemWithFlight, 0)
	for rows.Next() {
		var item domain.CartItemWithFlight
		flight, err := scanJoinedFlight(rows, &item.CartItem)
		if err != nil {
			return nil, err
		}
		item.Flight = flight
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PGCartRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(&item.ID, &item.UserID, &item.FlightID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// scanJoinedFlight reads a cart row plus a LEFT-JOINed flight; all
// flight columns are nullable and yield a nil flight when absent.
func scanJoinedFlight(row pgx.Row, item *domain.CartItem) (*domain.Flight, error) {
	var (
		fID                          *int64
		origin, destination          *string
		depart, ret                  *time.Time
		airline, airlineReturn       *string
		priceCents                   *int64
		flightCreated, flightUpdated *time.Time
	)
	if err := row.Scan(&item.ID, &item.UserID, &item.FlightID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		&fID, &origin, &destination, &depart, &ret, &airline, &airlineReturn, &priceCents, &flightCreated, &flightUpdated); err != nil {
		return nil, err
	}
	if fID == nil {
		return nil, nil
	}
	f := &domain.Flight{
		ID:          *fID,
		Origin:      *origin,
		Destination: *destination,
		Airline:     *airline,
		PriceCents:  *priceCents,
		ReturnTime:  ret,
	}
	if airlineReturn != nil {
		f.AirlineReturn = *airlineReturn
	}
	if depart != nil {
		f.DepartureTime = *depart
	}
	if flightCreated != nil {
		f.CreatedAt = *flightCreated
	}
	if flightUpdated != nil {
		f.UpdatedAt = *flightUpdated
	}
	return f, nil
}

var _ CartRepository = (*PGCartRepository)(nil)
