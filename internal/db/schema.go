package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InitializeSchema creates the customers table when it does not exist yet.
// Customers are managed elsewhere; the table only has to be readable here.
func InitializeSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			id      BIGSERIAL PRIMARY KEY,
			name    VARCHAR(255) NOT NULL,
			email   VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}
