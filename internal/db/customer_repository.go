package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(database *PostgresDB) *CustomerRepository {
	return &CustomerRepository{db: database.Conn}
}

// GetByID returns nil, nil when the customer does not exist.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT id, name, email, address FROM customers WHERE id = $1`

	var c models.Customer
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}

	return &c, nil
}

// Create is used to seed customers; booking itself never writes them.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, address)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query, c.Name, c.Email, c.Address).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}
