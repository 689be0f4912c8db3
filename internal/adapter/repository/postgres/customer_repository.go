package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// CustomerRepository implements domain.CustomerRepository for PostgreSQL.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Upsert inserts or updates a customer keyed by (external_id, tenant_id).
// COALESCE against the stored row gives partial-update semantics: a NULL
// incoming field never clobbers an existing value. The single statement is
// the atomicity boundary for concurrent upserts of the same record.
func (r *CustomerRepository) Upsert(ctx context.Context, c domain.Customer) error {
	query := `
        INSERT INTO customers (external_id, tenant_id, email, first_name, last_name, orders_count, total_spent)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (external_id, tenant_id) DO UPDATE SET
            email        = COALESCE(EXCLUDED.email, customers.email),
            first_name   = COALESCE(EXCLUDED.first_name, customers.first_name),
            last_name    = COALESCE(EXCLUDED.last_name, customers.last_name),
            orders_count = COALESCE(EXCLUDED.orders_count, customers.orders_count),
            total_spent  = COALESCE(EXCLUDED.total_spent, customers.total_spent)
    `

	_, err := r.db.ExecContext(ctx, query,
		c.ExternalID,
		c.TenantID,
		c.Email,
		c.FirstName,
		c.LastName,
		c.OrdersCount,
		c.TotalSpent,
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Customer, error) {
	query := `
        SELECT external_id, tenant_id, email, first_name, last_name, orders_count, total_spent
        FROM customers
        WHERE tenant_id = $1 AND external_id = $2
    `

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, tenantID, externalID).Scan(
		&c.ExternalID,
		&c.TenantID,
		&c.Email,
		&c.FirstName,
		&c.LastName,
		&c.OrdersCount,
		&c.TotalSpent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	return &c, nil
}

func (r *CustomerRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM customers WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}
