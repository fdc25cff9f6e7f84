package booking

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid booking request")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrInventoryUnavailable  = errors.New("inventory unavailable")
	ErrInsufficientInventory = errors.New("not enough inventory")
	ErrPublishFailed         = errors.New("failed to publish booking")
)

// Outcome names the terminal state of a booking attempt, for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, ErrInventoryUnavailable):
		return "inventory_unavailable"
	case errors.Is(err, ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, ErrPublishFailed):
		return "publish_failed"
	default:
		return "error"
	}
}
