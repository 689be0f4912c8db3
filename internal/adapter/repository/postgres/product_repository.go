package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// ProductRepository implements domain.ProductRepository for PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new PostgreSQL product repository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Upsert inserts or updates a product keyed by (external_id, tenant_id)
// with the same partial-update semantics as customers.
func (r *ProductRepository) Upsert(ctx context.Context, p domain.Product) error {
	query := `
        INSERT INTO products (external_id, tenant_id, title, price)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (external_id, tenant_id) DO UPDATE SET
            title = COALESCE(EXCLUDED.title, products.title),
            price = COALESCE(EXCLUDED.price, products.price)
    `

	_, err := r.db.ExecContext(ctx, query, p.ExternalID, p.TenantID, p.Title, p.Price)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

func (r *ProductRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM products WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
