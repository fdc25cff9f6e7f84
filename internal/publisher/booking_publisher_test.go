package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/messaging"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

type brokerMock struct {
	topics   []string
	messages []messaging.Message
	err      error
}

func (b *brokerMock) Publish(_ context.Context, topic string, msg messaging.Message) error {
	if b.err != nil {
		return b.err
	}
	b.topics = append(b.topics, topic)
	b.messages = append(b.messages, msg)
	return nil
}

func TestBookingPublisher_PublishBooking(t *testing.T) {
	broker := &brokerMock{}
	p := NewBookingPublisher(broker, "", "test")

	record := models.BookingRecord{
		UserID:      7,
		EventID:     42,
		TicketCount: 2,
		TotalPrice:  models.MustMoney("50.00"),
	}
	require.NoError(t, p.PublishBooking(context.Background(), record))

	require.Len(t, broker.messages, 1)
	assert.Equal(t, []string{DefaultBookingTopic}, broker.topics)

	msg := broker.messages[0]
	_, err := uuid.Parse(msg.ID)
	assert.NoError(t, err)
	assert.Equal(t, "42", msg.Key)
	assert.NotEmpty(t, msg.Headers["booked_at"])
	assert.JSONEq(t, `{"userId":7,"eventId":42,"ticketCount":2,"totalPrice":50.00}`, string(msg.Body))

	var decoded models.BookingRecord
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "50.00", decoded.TotalPrice.String())
}

func TestBookingPublisher_BrokerError(t *testing.T) {
	brokerErr := errors.New("connection reset")
	p := NewBookingPublisher(&brokerMock{err: brokerErr}, "bookings", "test")

	err := p.PublishBooking(context.Background(), models.BookingRecord{UserID: 1, EventID: 1, TicketCount: 1})
	assert.ErrorIs(t, err, brokerErr)
}

func TestBookingPublisher_EveryPublishGetsItsOwnID(t *testing.T) {
	broker := &brokerMock{}
	p := NewBookingPublisher(broker, "booking", "test")
	record := models.BookingRecord{UserID: 1, EventID: 1, TicketCount: 1, TotalPrice: models.MustMoney("1.00")}

	require.NoError(t, p.PublishBooking(context.Background(), record))
	require.NoError(t, p.PublishBooking(context.Background(), record))

	require.Len(t, broker.messages, 2)
	assert.NotEqual(t, broker.messages[0].ID, broker.messages[1].ID)
}
