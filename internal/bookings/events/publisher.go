package events

import (
	"context"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"time"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	schemaVersion = "1.0"
	source        = "staybook-api"
)

// BookingEvent is the payload published for booking lifecycle changes.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	ReferenceCode string    `json:"reference_code,omitempty"`
	UserID        string    `json:"user_id"`
	HotelID       string    `json:"hotel_id"`
	RoomID        string    `json:"room_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Nights        int       `json:"nights"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. A nil producer yields a no-op
// publisher so the service works with eventing disabled.
type Publisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

// publish is best effort: a failed emit is logged, never surfaced to the
// caller, since the booking itself is already durable.
func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p.producer == nil {
		return
	}

	event := BookingEvent{
		BookingID:     booking.ID,
		ReferenceCode: booking.ReferenceCode,
		UserID:        booking.UserID,
		HotelID:       booking.HotelID,
		RoomID:        booking.RoomID,
		CheckIn:       booking.CheckIn,
		CheckOut:      booking.CheckOut,
		Nights:        booking.Nights,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status,
		OccurredAt:    time.Now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		p.logger.Error("Failed to build booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	p.logger.Debug("Published booking event",
		"event_type", eventType,
		"booking_id", booking.ID,
	)
}
