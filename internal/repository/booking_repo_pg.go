package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mpopescu/skybooker/internal/domain"
)

type BookingRepository interface {
	CreateMany(ctx context.Context, userID int64, lines []domain.OrderLine) ([]domain.Booking, error)
	PlaceOrderFromCart(ctx context.Context, userID int64) ([]domain.Booking, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithFlight, error)
	GetByID(ctx context.Context, userID, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, userID, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// insertGuarded creates one placed booking for the line, unless the
// referenced flight no longer exists in the catalog; a vanished flight
// is reported as (nil, nil) and the line is skipped.
func insertGuarded(ctx context.Context, tx pgx.Tx, userID int64, line domain.OrderLine) (*domain.Booking, error) {
	row := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, quantity, status)
		SELECT $1, f.id, $3, $4 FROM flights f WHERE f.id = $2
		RETURNING id, user_id, flight_id, quantity, status, created_at, updated_at`,
		userID, line.FlightID, line.Quantity, domain.BookingStatusPlaced)

	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CreateMany(ctx context.Context, userID int64, lines []domain.OrderLine) ([]domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bookings := make([]domain.Booking, 0, len(lines))
	for _, line := range lines {
		b, err := insertGuarded(ctx, tx, userID, line)
		if err != nil {
			return nil, err
		}
		if b != nil {
			bookings = append(bookings, *b)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return bookings, nil
}

// PlaceOrderFromCart converts the user's cart into bookings and clears
// the cart in one transaction. The cart rows are locked for the
// duration so a concurrent add cannot slip between the read and the
// clear. Returns domain.ErrEmptyCart when there is nothing to place.
func (r *PGBookingRepository) PlaceOrderFromCart(ctx context.Context, userID int64) ([]domain.Booking, int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT flight_id, quantity FROM cart_items WHERE user_id=$1 ORDER BY id FOR UPDATE`, userID)
	if err != nil {
		return nil, 0, err
	}
	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.FlightID, &line.Quantity); err != nil {
			rows.Close()
			return nil, 0, err
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(lines) == 0 {
		return nil, 0, domain.ErrEmptyCart
	}

	bookings := make([]domain.Booking, 0, len(lines))
	for _, line := range lines {
		b, err := insertGuarded(ctx, tx, userID, line)
		if err != nil {
			return nil, 0, err
		}
		if b != nil {
			bookings = append(bookings, *b)
		}
	}

	res, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return bookings, res.RowsAffected(), nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithFlight, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.user_id, b.flight_id, b.quantity, b.status, b.created_at, b.updated_at,
		f.id, f.origin, f.destination, f.departure_time, f.return_time, f.airline, f.airline_return, f.price_cents, f.created_at, f.updated_at
		FROM bookings b
		LEFT JOIN flights f ON f.id = b.flight_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingWithFlight, 0)
	for rows.Next() {
		var bw domain.BookingWithFlight
		flight, err := scanJoinedBookingFlight(rows, &bw.Booking)
		if err != nil {
			return nil, err
		}
		bw.Flight = flight
		bookings = append(bookings, bw)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight_id, quantity, status, created_at, updated_at FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	res, err := r.db.Exec(ctx, `UPDATE bookings SET quantity=$1, status=$2, updated_at=now() WHERE id=$3 AND user_id=$4`,
		booking.Quantity, booking.Status, booking.ID, booking.UserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanJoinedBookingFlight(row pgx.Row, b *domain.Booking) (*domain.Flight, error) {
	var (
		fID                          *int64
		origin, destination          *string
		depart, ret                  *time.Time
		airline, airlineReturn       *string
		priceCents                   *int64
		flightCreated, flightUpdated *time.Time
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt,
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

var _ BookingRepository = (*PGBookingRepository)(nil)
