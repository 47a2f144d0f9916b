package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/service/orders"
)

type BookingHandler struct {
	service orders.OrderUseCase
}

type orderLineRequest struct {
	FlightID int64 `json:"flight_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

// placeOrderRequest may carry explicit lines; when items is empty the
// order is placed from the caller's cart.
type placeOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type updateBookingRequest struct {
	Quantity *int    `json:"quantity"`
	Status   *string `json:"status"`
}

type placeOrderResponse struct {
	Bookings     []bookingResponse `json:"bookings"`
	ClearedCount int64             `json:"cleared_count"`
}

func NewBookingHandler(service orders.OrderUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/place", h.place)
	router.GET("", h.list)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

func (h *BookingHandler) place(c *gin.Context) {
	var req placeOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	var lines []domain.OrderLine
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{FlightID: item.FlightID, Quantity: item.Quantity})
	}

	identity := identityFrom(c)
	result, err := h.service.PlaceOrder(c.Request.Context(), identity.UserID, lines)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := placeOrderResponse{
		Bookings:     make([]bookingResponse, 0, len(result.Bookings)),
		ClearedCount: result.ClearedCount,
	}
	for _, b := range result.Bookings {
		out.Bookings = append(out.Bookings, toBookingResponse(b))
	}
	respond(c, http.StatusOK, "order placed, cart cleared", out)
}

func (h *BookingHandler) list(c *gin.Context) {
	identity := identityFrom(c)
	bookings, err := h.service.List(c.Request.Context(), identity.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := toBookingResponse(b.Booking)
		resp.Flight = toFlightResponse(b.Flight)
		out = append(out, resp)
	}
	respond(c, http.StatusOK, "bookings found", out)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch := domain.BookingPatch{Quantity: req.Quantity}
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		patch.Status = &status
	}

	identity := identityFrom(c)
	booking, err := h.service.Update(c.Request.Context(), identity.UserID, id, patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "booking updated", toBookingResponse(*booking))
}

func (h *BookingHandler) remove(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	identity := identityFrom(c)
	if err := h.service.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "booking deleted", nil)
}
