package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartUseCase is a mock implementation of cart.CartUseCase
type MockCartUseCase struct {
	mock.Mock
}

func (m *MockCartUseCase) Add(ctx context.Context, userID, flightID int64, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, flightID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartUseCase) SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartUseCase) Remove(ctx context.Context, userID, itemID int64) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartUseCase) List(ctx context.Context, userID int64) ([]domain.CartItemWithFlight, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartItemWithFlight), args.Error(1)
}

func (m *MockCartUseCase) Clear(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func authedContext(w *httptest.ResponseRecorder, userID int64, role domain.Role) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, &auth.Identity{UserID: userID, Role: role})
	return c
}

func TestCartHandler_add(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)

	body, _ := json.Marshal(addToCartRequest{FlightID: 3, Quantity: 2})
	c.Request = httptest.NewRequest("POST", "/cart/add", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	item := &domain.CartItem{ID: 1, UserID: 7, FlightID: 3, Quantity: 5}
	mockService.On("Add", c.Request.Context(), int64(7), int64(3), 2).Return(item, nil)

	handler.add(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	mockService.AssertExpectations(t)
}

func TestCartHandler_add_DefaultsQuantityToOne(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)

	body, _ := json.Marshal(addToCartRequest{FlightID: 3})
	c.Request = httptest.NewRequest("POST", "/cart/add", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	item := &domain.CartItem{ID: 1, UserID: 7, FlightID: 3, Quantity: 1}
	mockService.On("Add", c.Request.Context(), int64(7), int64(3), 1).Return(item, nil)

	handler.add(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_add_UnknownFlight(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)

	body, _ := json.Marshal(addToCartRequest{FlightID: 99, Quantity: 1})
	c.Request = httptest.NewRequest("POST", "/cart/add", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Add", c.Request.Context(), int64(7), int64(99), 1).Return(nil, domain.ErrNotFound)

	handler.add(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestCartHandler_list_IncludesNullFlightForDeletedOffers(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)
	c.Request = httptest.NewRequest("GET", "/cart", nil)

	items := []domain.CartItemWithFlight{
		{CartItem: domain.CartItem{ID: 1, UserID: 7, FlightID: 3, Quantity: 2}, Flight: &domain.Flight{ID: 3, Origin: "Bucharest"}},
		{CartItem: domain.CartItem{ID: 2, UserID: 7, FlightID: 4, Quantity: 1}, Flight: nil},
	}
	mockService.On("List", c.Request.Context(), int64(7)).Return(items, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    []cartItemResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.NotNil(t, resp.Data[0].Flight)
	assert.Nil(t, resp.Data[1].Flight)
}

func TestCartHandler_setQuantity_NotOwned(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)
	c.Params = gin.Params{{Key: "id", Value: "12"}}

	body, _ := json.Marshal(setQuantityRequest{Quantity: 3})
	c.Request = httptest.NewRequest("PUT", "/cart/12", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SetQuantity", c.Request.Context(), int64(7), int64(12), 3).Return(nil, domain.ErrNotFound)

	handler.setQuantity(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandler_remove(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	c.Request = httptest.NewRequest("DELETE", "/cart/12", nil)

	mockService.On("Remove", c.Request.Context(), int64(7), int64(12)).Return(nil)

	handler.remove(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_remove_BadID(t *testing.T) {
	mockService := &MockCartUseCase{}
	handler := NewCartHandler(mockService)

	w := httptest.NewRecorder()
	c := authedContext(w, 7, domain.RoleUser)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("DELETE", "/cart/abc", nil)

	handler.remove(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}
