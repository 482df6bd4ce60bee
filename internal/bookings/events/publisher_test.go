package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtbook/pkg/kafka"
	"courtbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	msgs []kafka.Message
	err  error
}

func (c *capturePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func sampleEvent() model.BookingEvent {
	at := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	return model.BookingEvent{
		Type: model.EventBookingCancelled,
		Booking: model.Booking{
			ID:        "BK0A1B2C3D",
			StudentID: "S1",
			CourtID:   "C1",
			Interval:  model.MustInterval("2024-06-03", "09:00", "10:00"),
			State:     model.BookingCancelled,
			Fee:       10,
			CreatedAt: at,
			UpdatedAt: at,
			Version:   2,
		},
		OccurredAt: at,
	}
}

func TestPublisher_OnBookingEvent(t *testing.T) {
	capture := &capturePublisher{}
	p := NewPublisher(capture)

	ctx := WithCorrelationID(context.Background(), "req-42")
	require.NoError(t, p.OnBookingEvent(ctx, sampleEvent()))
	require.Len(t, capture.msgs, 1)

	msg := capture.msgs[0]
	assert.Equal(t, "C1", msg.Key)
	assert.Equal(t, "booking.cancelled", msg.GetEventType())
	assert.Equal(t, "BK0A1B2C3D-v2", msg.GetEventID())
	assert.Equal(t, "req-42", msg.GetCorrelationID())
	assert.Equal(t, SchemaVersion, msg.Headers[kafka.HeaderSchemaVersion])

	var payload Payload
	require.NoError(t, msg.DecodeValue(&payload))
	assert.Equal(t, model.EventBookingCancelled, payload.Type)
	assert.Equal(t, "BK0A1B2C3D", payload.Booking.ID)
	assert.Equal(t, model.BookingCancelled, payload.Booking.State)
	assert.True(t, payload.Booking.Interval.Overlaps(model.MustInterval("2024-06-03", "09:30", "09:45")))
}

func TestPublisher_PropagatesProducerError(t *testing.T) {
	p := NewPublisher(&capturePublisher{err: errors.New("broker down")})

	err := p.OnBookingEvent(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker down")
}
