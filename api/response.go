package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
)

// Every endpoint answers with the same envelope.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, response{Success: false, Message: message})
}

// respondDomainError maps the error taxonomy to HTTP statuses. Store
// and provider failures surface as generic server errors.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "server error")
	}
}

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type flightResponse struct {
	ID            int64      `json:"id"`
	From          string     `json:"from"`
	To            string     `json:"to"`
	DepartDate    time.Time  `json:"depart_date"`
	ReturnDate    *time.Time `json:"return_date"`
	Airline       string     `json:"airline"`
	AirlineReturn string     `json:"airline_return"`
	PriceCents    int64      `json:"price_cents"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toFlightResponse(f *domain.Flight) *flightResponse {
	if f == nil {
		return nil
	}
	return &flightResponse{
		ID:            f.ID,
		From:          f.Origin,
		To:            f.Destination,
		DepartDate:    f.DepartureTime,
		ReturnDate:    f.ReturnTime,
		Airline:       f.Airline,
		AirlineReturn: f.AirlineReturn,
		PriceCents:    f.PriceCents,
		CreatedAt:     f.CreatedAt,
	}
}

func toFlightResponses(flights []domain.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(flights))
	for i := range flights {
		out = append(out, *toFlightResponse(&flights[i]))
	}
	return out
}

type cartItemResponse struct {
	ID       int64           `json:"id"`
	FlightID int64           `json:"flight_id"`
	Quantity int             `json:"quantity"`
	Flight   *flightResponse `json:"flight"`
}

type bookingResponse struct {
	ID        int64           `json:"id"`
	FlightID  int64           `json:"flight_id"`
	Quantity  int             `json:"quantity"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Flight    *flightResponse `json:"flight,omitempty"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		FlightID:  b.FlightID,
		Quantity:  b.Quantity,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}
