package models

// InventoryQuotation is the inventory service's view of an event at query time.
type InventoryQuotation struct {
	EventID     int64  `json:"eventId"`
	Event       string `json:"event"`
	Venue       string `json:"venue,omitempty"`
	Capacity    int64  `json:"capacity"`
	TicketPrice Money  `json:"ticketPrice"`
}
