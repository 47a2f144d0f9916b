package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/search"
	"github.com/mpopescu/skybooker/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightRequest struct {
	From          string     `json:"from" binding:"required"`
	To            string     `json:"to" binding:"required"`
	DepartDate    time.Time  `json:"depart_date" binding:"required"`
	ReturnDate    *time.Time `json:"return_date"`
	Airline       string     `json:"airline"`
	AirlineReturn string     `json:"airline_return"`
	PriceCents    int64      `json:"price_cents"`
}

type flightPatchRequest struct {
	From          *string    `json:"from"`
	To            *string    `json:"to"`
	DepartDate    *time.Time `json:"depart_date"`
	ReturnDate    *time.Time `json:"return_date"`
	Airline       *string    `json:"airline"`
	AirlineReturn *string    `json:"airline_return"`
	PriceCents    *int64     `json:"price_cents"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

// Register wires the catalog routes. Reads are public; writes require
// an authenticated administrator.
func (h *FlightHandler) Register(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	router.GET("/all", h.list)
	router.GET("/fetch", h.fetch)
	router.GET("/:id", h.get)
	router.POST("", authMW, adminMW, h.create)
	router.PUT("/:id", authMW, adminMW, h.update)
	router.DELETE("/:id", authMW, adminMW, h.remove)
}

func (h *FlightHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if len(all) == 0 {
		respondError(c, http.StatusNotFound, "no flights stored")
		return
	}
	respond(c, http.StatusOK, "flights found", toFlightResponses(all))
}

func (h *FlightHandler) fetch(c *gin.Context) {
	query := search.Query{
		From:       c.Query("from"),
		To:         c.Query("to"),
		DepartDate: c.Query("depart"),
		ReturnDate: c.Query("ret"),
		Adults:     c.Query("adults"),
	}

	offers, err := h.service.Fetch(c.Request.Context(), query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "flights fetched", toFlightResponses(offers))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "flight found", toFlightResponse(flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	flight := domain.Flight{
		Origin:        req.From,
		Destination:   req.To,
		DepartureTime: req.DepartDate,
		ReturnTime:    req.ReturnDate,
		Airline:       req.Airline,
		AirlineReturn: req.AirlineReturn,
		PriceCents:    req.PriceCents,
	}
	if err := h.service.Create(c.Request.Context(), &flight); err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, "flight created", toFlightResponse(&flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req flightPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	flight, err := h.service.Update(c.Request.Context(), id, domain.FlightPatch{
		Origin:        req.From,
		Destination:   req.To,
		DepartureTime: req.DepartDate,
		ReturnTime:    req.ReturnDate,
		Airline:       req.Airline,
		AirlineReturn: req.AirlineReturn,
		PriceCents:    req.PriceCents,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "flight updated", toFlightResponse(flight))
}

func (h *FlightHandler) remove(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "flight deleted", nil)
}
