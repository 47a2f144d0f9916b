package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/kafka"
	"github.com/mpopescu/skybooker/internal/repository"
	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	PlaceOrder(ctx context.Context, userID int64, lines []domain.OrderLine) (*OrderResult, error)
	List(ctx context.Context, userID int64) ([]domain.BookingWithFlight, error)
	Update(ctx context.Context, userID, bookingID int64, patch domain.BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, userID, bookingID int64) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// publishRetries bounds the broker attempts per event before the
// best-effort publish gives up.
const publishRetries = 3

// OrderResult reports what one placement produced: the bookings that
// were written and how many cart rows were removed, including rows
// whose flight had vanished and were skipped.
type OrderResult struct {
	Bookings     []domain.Booking
	ClearedCount int64
}

type OrderService struct {
	bookings           repository.BookingRepository
	cart               repository.CartRepository
	users              repository.UserRepository
	producer           Producer
	ordersTopic        string
	notificationsTopic string
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(
	bookings repository.BookingRepository,
	cart repository.CartRepository,
	users repository.UserRepository,
	producer Producer,
	ordersTopic string,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		bookings:    bookings,
		cart:        cart,
		users:       users,
		producer:    producer,
		ordersTopic: ordersTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// PlaceOrder converts the caller's cart, or an explicit line list,
// into placed bookings. Lines whose flight has since left the catalog
// are skipped without failing the order. The cart-sourced path runs in
// one store transaction; with explicit lines the cart clear afterwards
// is best-effort, matching the documented non-transactional behavior.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, lines []domain.OrderLine) (*OrderResult, error) {
	var (
		bookings []domain.Booking
		cleared  int64
		err      error
	)

	if len(lines) == 0 {
		bookings, cleared, err = s.bookings.PlaceOrderFromCart(ctx, userID)
		if err != nil {
			return nil, err
		}
	} else {
		for i := range lines {
			if lines[i].Quantity == 0 {
				lines[i].Quantity = 1
			}
			if lines[i].Quantity < 1 {
				return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
			}
		}

		bookings, err = s.bookings.CreateMany(ctx, userID, lines)
		if err != nil {
			return nil, err
		}

		cleared, err = s.cart.Clear(ctx, userID)
		if err != nil {
			logrus.WithError(err).Warn("order placed but cart clear failed")
			cleared = 0
		}
	}

	s.publishOrder(ctx, userID, bookings)

	return &OrderResult{Bookings: bookings, ClearedCount: cleared}, nil
}

func (s *OrderService) List(ctx context.Context, userID int64) ([]domain.BookingWithFlight, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Update applies a partial change to an owned booking. Quantity must
// stay positive; status must be one of the closed enum values.
func (s *OrderService) Update(ctx context.Context, userID, bookingID int64, patch domain.BookingPatch) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil {
		if *patch.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
		}
		booking.Quantity = *patch.Quantity
	}

	wasCancelled := booking.Status == domain.BookingStatusCancelled
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *patch.Status)
		}
		booking.Status = *patch.Status
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCancelled && !wasCancelled {
		s.publish(ctx, "booking_cancelled", userID, *booking)
	}
	return booking, nil
}

func (s *OrderService) Delete(ctx context.Context, userID, bookingID int64) error {
	return s.bookings.Delete(ctx, userID, bookingID)
}

func (s *OrderService) publishOrder(ctx context.Context, userID int64, bookings []domain.Booking) {
	for _, b := range bookings {
		s.publish(ctx, "order_placed", userID, b)
	}
}

// publish is best-effort: a broker failure is logged, never surfaced
// to the caller.
func (s *OrderService) publish(ctx context.Context, eventType string, userID int64, booking domain.Booking) {
	if s.producer == nil || s.ordersTopic == "" {
		return
	}

	email := ""
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		email = user.Email
	}

	event := kafka.OrderEvent{
		Type:      eventType,
		OrderID:   uuid.NewString(),
		UserID:    userID,
		BookingID: booking.ID,
		FlightID:  booking.FlightID,
		Quantity:  booking.Quantity,
		Status:    string(booking.Status),
		Email:     email,
		CreatedAt: time.Now(),
	}

	key := event.OrderID
	if err := s.producer.PublishWithRetry(ctx, s.ordersTopic, key, event, publishRetries); err != nil {
		logrus.WithError(err).WithField("booking", booking.ID).Warn("failed to publish order event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, key, event, publishRetries); err != nil {
			logrus.WithError(err).WithField("booking", booking.ID).Warn("failed to publish notification event")
		}
	}
}

var _ OrderUseCase = (*OrderService)(nil)
