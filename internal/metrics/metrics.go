package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingRequests counts booking attempts by terminal outcome
	// (success, invalid_request, customer_not_found, inventory_unavailable,
	// insufficient_inventory, publish_failed, error).
	BookingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "requests_total",
			Help:      "The total number of booking requests by outcome",
		},
		[]string{"outcome"},
	)

	// InventoryRequestDuration times calls to the inventory service.
	InventoryRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "inventory_request_duration_seconds",
			Help:      "Duration of inventory service requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// BookingsPublished counts booking records handed to the broker.
	BookingsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "published_total",
			Help:      "The total number of booking records published",
		},
		[]string{"driver", "result"},
	)
)
