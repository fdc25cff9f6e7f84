package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/messaging"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/metrics"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/tracing"
)

const DefaultBookingTopic = "booking"

// Broker is the hand-off point for serialized messages.
type Broker interface {
	Publish(ctx context.Context, topic string, msg messaging.Message) error
}

type BookingPublisher struct {
	broker Broker
	topic  string
	driver string
}

func NewBookingPublisher(broker Broker, topic, driver string) *BookingPublisher {
	if topic == "" {
		topic = DefaultBookingTopic
	}
	return &BookingPublisher{
		broker: broker,
		topic:  topic,
		driver: driver,
	}
}

// PublishBooking hands a booking record to the broker. It returns once the
// broker accepted the message; downstream processing is not awaited.
func (p *BookingPublisher) PublishBooking(ctx context.Context, record models.BookingRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	headers := tracing.InjectHeaders(ctx)
	headers["booked_at"] = time.Now().UTC().Format(time.RFC3339)

	err = p.broker.Publish(ctx, p.topic, messaging.Message{
		ID:      uuid.NewString(),
		Key:     strconv.FormatInt(record.EventID, 10),
		Body:    data,
		Headers: headers,
	})
	if err != nil {
		metrics.BookingsPublished.WithLabelValues(p.driver, "error").Inc()
		return err
	}

	metrics.BookingsPublished.WithLabelValues(p.driver, "ok").Inc()
	return nil
}
