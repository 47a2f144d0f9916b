package email

import (
	"context"

	"github.com/mpopescu/skybooker/internal/kafka"
	"github.com/sirupsen/logrus"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send dispatches an order notification. Delivery is a log line for
// now; the event carries everything a real mailer needs.
func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	logrus.WithFields(logrus.Fields{
		"to":       event.Email,
		"type":     event.Type,
		"booking":  event.BookingID,
		"flight":   event.FlightID,
		"quantity": event.Quantity,
	}).Info("sending order notification email")
	return nil
}
