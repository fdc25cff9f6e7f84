package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/metrics"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

// ErrUnavailable is returned when the inventory service cannot produce a
// quotation: it is unreachable, timed out, answered with a non-2xx status or
// sent a body that does not decode into a complete quotation.
var ErrUnavailable = errors.New("inventory service unavailable")

// BaseURLResolver yields the current base URL of the inventory service.
type BaseURLResolver interface {
	URL() string
}

type staticURL string

func (u staticURL) URL() string { return string(u) }

type InventoryClient struct {
	resolver   BaseURLResolver
	timeout    time.Duration
	httpClient *http.Client
}

// quotationResponse is the inventory service's answer. Pointer fields tell a
// missing or null value apart from zero.
type quotationResponse struct {
	Event       string        `json:"event"`
	Venue       string        `json:"venue"`
	Capacity    *int64        `json:"capacity"`
	TicketPrice *models.Money `json:"ticketPrice"`
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return NewDiscoveredInventoryClient(staticURL(baseURL), timeout)
}

// NewDiscoveredInventoryClient asks resolver for the base URL on every call,
// so a moved inventory instance is picked up without a restart.
func NewDiscoveredInventoryClient(resolver BaseURLResolver, timeout time.Duration) *InventoryClient {
	return &InventoryClient{
		resolver: resolver,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Quote fetches the current capacity and ticket price of an event.
// Every call goes to the inventory service; nothing is cached.
func (c *InventoryClient) Quote(ctx context.Context, eventID int64) (quotation *models.InventoryQuotation, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.InventoryRequestDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/event/%d", strings.TrimRight(c.resolver.URL(), "/"), eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call inventory service: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: event %d: inventory service returned status %d", ErrUnavailable, eventID, resp.StatusCode)
	}

	var body quotationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	if body.Capacity == nil || body.TicketPrice == nil {
		return nil, fmt.Errorf("%w: event %d: quotation without capacity or ticket price", ErrUnavailable, eventID)
	}
	if *body.Capacity < 0 || body.TicketPrice.IsNegative() {
		return nil, fmt.Errorf("%w: event %d: invalid quotation (capacity %d, price %s)", ErrUnavailable, eventID, *body.Capacity, body.TicketPrice)
	}

	return &models.InventoryQuotation{
		EventID:     eventID,
		Event:       body.Event,
		Venue:       body.Venue,
		Capacity:    *body.Capacity,
		TicketPrice: *body.TicketPrice,
	}, nil
}
