package models

// Customer is owned by customer management; booking only reads it.
type Customer struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Address string `json:"address" db:"address"`
}
