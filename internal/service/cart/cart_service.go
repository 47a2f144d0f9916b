package cart

import (
	"context"
	"fmt"

	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/repository"
)

type CartUseCase interface {
	Add(ctx context.Context, userID, flightID int64, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, itemID int64) error
	List(ctx context.Context, userID int64) ([]domain.CartItemWithFlight, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

type CartService struct {
	cart    repository.CartRepository
	flights repository.FlightRepository
}

func NewCartService(cart repository.CartRepository, flights repository.FlightRepository) *CartService {
	return &CartService{cart: cart, flights: flights}
}

// Add puts a flight in the user's cart. Re-adding a flight already in
// the cart increments its quantity instead of creating a second row.
func (s *CartService) Add(ctx context.Context, userID, flightID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	if _, err := s.flights.GetByID(ctx, flightID); err != nil {
		return nil, err
	}

	return s.cart.AddOrIncrement(ctx, userID, flightID, quantity)
}

func (s *CartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	return s.cart.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	return s.cart.Delete(ctx, userID, itemID)
}

func (s *CartService) List(ctx context.Context, userID int64) ([]domain.CartItemWithFlight, error) {
	return s.cart.ListByUser(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) (int64, error) {
	return s.cart.Clear(ctx, userID)
}

var _ CartUseCase = (*CartService)(nil)
