package domain

import "time"

// CartItem is one line of a user's pending selection. At most one row
// exists per (user, flight) pair; re-adding a flight increments the
// quantity instead.
type CartItem struct {
	ID        int64
	UserID    int64
	FlightID  int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItemWithFlight joins a cart line with its offer for display.
// Flight is nil when the offer no longer exists in the catalog.
type CartItemWithFlight struct {
	CartItem
	Flight *Flight
}
