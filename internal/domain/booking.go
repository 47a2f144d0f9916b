package domain

import "time"

type BookingStatus string

const (
	BookingStatusPlaced    BookingStatus = "placed"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPlaced, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID        int64
	UserID    int64
	FlightID  int64
	Quantity  int
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingWithFlight joins a booking with its offer for display. Flight
// is nil when the offer was deleted from the catalog after the booking
// was created.
type BookingWithFlight struct {
	Booking
	Flight *Flight
}

// OrderLine is one requested booking: a flight reference and a count.
type OrderLine struct {
	FlightID int64
	Quantity int
}

// BookingPatch is a partial update; nil fields are left untouched.
type BookingPatch struct {
	Quantity *int
	Status   *BookingStatus
}
