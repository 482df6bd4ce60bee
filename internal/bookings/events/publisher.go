package events

import (
	"context"
	"fmt"
	"time"

	"courtbook/pkg/kafka"
	"courtbook/pkg/model"
)

const (
	SchemaVersion = "1"
	Source        = "courtbook"
)

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Payload is the JSON body of a booking lifecycle message.
type Payload struct {
	Type       model.BookingEventType `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Booking    model.Booking          `json:"booking"`
}

type correlationKey struct{}

// WithCorrelationID attaches the id that outgoing messages will carry.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Publisher forwards ledger events to Kafka, keyed by court so that events
// of one court stay on one partition.
type Publisher struct {
	producer MessagePublisher
}

func NewPublisher(producer MessagePublisher) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) OnBookingEvent(ctx context.Context, event model.BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.Booking.CourtID).
		WithValue(Payload{
			Type:       event.Type,
			OccurredAt: event.OccurredAt,
			Booking:    event.Booking,
		}).
		WithEventID(fmt.Sprintf("%s-v%d", event.Booking.ID, event.Booking.Version)).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(correlationID(ctx)).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", event.Type, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for booking %s: %w", event.Type, event.Booking.ID, err)
	}
	return nil
}
