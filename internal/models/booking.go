package models

type BookingRequest struct {
	UserID      int64 `json:"userId" binding:"required,gt=0"`
	EventID     int64 `json:"eventId" binding:"required,gt=0"`
	TicketCount int   `json:"ticketCount" binding:"required,gt=0"`
}

// BookingRecord is published to the booking topic once a request has passed
// validation. It is never modified after construction.
type BookingRecord struct {
	UserID      int64 `json:"userId"`
	EventID     int64 `json:"eventId"`
	TicketCount int   `json:"ticketCount"`
	TotalPrice  Money `json:"totalPrice"`
}

type BookingResponse struct {
	UserID      int64 `json:"userId"`
	EventID     int64 `json:"eventId"`
	TicketCount int   `json:"ticketCount"`
	TotalPrice  Money `json:"totalPrice"`
}

// Response projects the record onto the public API shape.
func (r BookingRecord) Response() BookingResponse {
	return BookingResponse{
		UserID:      r.UserID,
		EventID:     r.EventID,
		TicketCount: r.TicketCount,
		TotalPrice:  r.TotalPrice,
	}
}
