// Package booking creates bookings: it validates the customer and the event's
// remaining capacity, prices the tickets and hands the result to the booking
// topic.
//
// Capacity is only read here. Two concurrent requests for the same event can
// both pass the capacity check; decrementing capacity is the inventory
// service's job.
package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/metrics"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

// CustomerFinder returns nil, nil when the customer does not exist.
type CustomerFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
}

type InventoryQuoter interface {
	Quote(ctx context.Context, eventID int64) (*models.InventoryQuotation, error)
}

type Publisher interface {
	PublishBooking(ctx context.Context, record models.BookingRecord) error
}

type Service struct {
	customers CustomerFinder
	inventory InventoryQuoter
	publisher Publisher
}

func NewService(customers CustomerFinder, inventory InventoryQuoter, publisher Publisher) *Service {
	return &Service{
		customers: customers,
		inventory: inventory,
		publisher: publisher,
	}
}

// CreateBooking runs the booking pipeline. Each step is a gate: the first
// failure ends the attempt and nothing is published.
func (s *Service) CreateBooking(ctx context.Context, req models.BookingRequest) (resp models.BookingResponse, err error) {
	ctx, span := otel.Tracer("booking").Start(ctx, "CreateBooking")
	span.SetAttributes(
		attribute.Int64("booking.user_id", req.UserID),
		attribute.Int64("booking.event_id", req.EventID),
		attribute.Int("booking.ticket_count", req.TicketCount),
	)
	defer func() {
		outcome := Outcome(err)
		metrics.BookingRequests.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.String("booking.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	logger := log.Ctx(ctx).With().
		Int64("user_id", req.UserID).
		Int64("event_id", req.EventID).
		Int("ticket_count", req.TicketCount).
		Logger()

	if req.UserID <= 0 || req.EventID <= 0 || req.TicketCount <= 0 {
		return resp, fmt.Errorf("%w: userId, eventId and ticketCount must be positive", ErrInvalidRequest)
	}

	customer, err := s.customers.GetByID(ctx, req.UserID)
	if err != nil {
		return resp, fmt.Errorf("failed to look up customer %d: %w", req.UserID, err)
	}
	if customer == nil {
		return resp, fmt.Errorf("%w: %d", ErrCustomerNotFound, req.UserID)
	}

	quotation, err := s.inventory.Quote(ctx, req.EventID)
	if err != nil {
		return resp, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	logger.Info().
		Str("venue", quotation.Venue).
		Int64("capacity", quotation.Capacity).
		Stringer("ticket_price", quotation.TicketPrice).
		Msg("Inventory quotation received")

	if quotation.Capacity < int64(req.TicketCount) {
		return resp, fmt.Errorf("%w: event %d has %d tickets left, %d requested",
			ErrInsufficientInventory, req.EventID, quotation.Capacity, req.TicketCount)
	}

	record := models.BookingRecord{
		UserID:      customer.ID,
		EventID:     req.EventID,
		TicketCount: req.TicketCount,
		TotalPrice:  quotation.TicketPrice.Times(req.TicketCount),
	}

	if err := s.publisher.PublishBooking(ctx, record); err != nil {
		return resp, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	logger.Info().Stringer("total_price", record.TotalPrice).Msg("Booking published")

	return record.Response(), nil
}
