package domain

import "time"

type Flight struct {
	ID            int64
	Origin        string
	Destination   string
	DepartureTime time.Time
	ReturnTime    *time.Time
	Airline       string
	AirlineReturn string
	PriceCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DedupKey identifies an offer for ingestion: two offers with the same
// route, dates, airlines and price collapse to one catalog record.
type DedupKey struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	ReturnTime    time.Time
	Airline       string
	AirlineReturn string
	PriceCents    int64
}

func (f Flight) Key() DedupKey {
	k := DedupKey{
		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureTime: f.DepartureTime.UTC(),
		Airline:       f.Airline,
		AirlineReturn: f.AirlineReturn,
		PriceCents:    f.PriceCents,
	}
	if f.ReturnTime != nil {
		k.ReturnTime = f.ReturnTime.UTC()
	}
	return k
}

// FlightPatch is a partial update; nil fields are left untouched.
type FlightPatch struct {
	Origin        *string
	Destination   *string
	DepartureTime *time.Time
	ReturnTime    *time.Time
	Airline       *string
	AirlineReturn *string
	PriceCents    *int64
}
