package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/service/cart"
)

type CartHandler struct {
	service cart.CartUseCase
}

type addToCartRequest struct {
	FlightID int64 `json:"flight_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func NewCartHandler(service cart.CartUseCase) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.POST("/add", h.add)
	router.GET("", h.list)
	router.PUT("/:id", h.setQuantity)
	router.DELETE("/:id", h.remove)
}

func (h *CartHandler) add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	identity := identityFrom(c)
	item, err := h.service.Add(c.Request.Context(), identity.UserID, req.FlightID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, "flight added to cart", cartItemResponse{
		ID:       item.ID,
		FlightID: item.FlightID,
		Quantity: item.Quantity,
	})
}

func (h *CartHandler) list(c *gin.Context) {
	identity := identityFrom(c)
	items, err := h.service.List(c.Request.Context(), identity.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemResponse{
			ID:       item.ID,
			FlightID: item.FlightID,
			Quantity: item.Quantity,
			Flight:   toFlightResponse(item.Flight),
		})
	}
	respond(c, http.StatusOK, "cart loaded", out)
}

func (h *CartHandler) setQuantity(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := identityFrom(c)
	item, err := h.service.SetQuantity(c.Request.Context(), identity.UserID, id, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, "quantity updated", cartItemResponse{
		ID:       item.ID,
		FlightID: item.FlightID,
		Quantity: item.Quantity,
	})
}

func (h *CartHandler) remove(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	identity := identityFrom(c)
	if err := h.service.Remove(c.Request.Context(), identity.UserID, id); err != nil {
		respondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "flight removed from cart", nil)
}
