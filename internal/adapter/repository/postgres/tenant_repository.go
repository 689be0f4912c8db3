package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TenantRepository implements domain.TenantRepository for PostgreSQL.
type TenantRepository struct {
	db *sql.DB
}

// NewTenantRepository creates a new PostgreSQL tenant repository.
func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Store(ctx context.Context, t *domain.Tenant) error {
	query := `
        INSERT INTO tenants (id, admin_id, shop_domain, access_token, name, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.AdminID,
		t.ShopDomain,
		t.AccessToken,
		t.Name,
		t.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrConflict
		}
		return fmt.Errorf("store tenant: %w", err)
	}

	return nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
        SELECT id, admin_id, shop_domain, access_token, name, created_at
        FROM tenants
        WHERE id = $1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "find by ID")
}

func (r *TenantRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*domain.Tenant, error) {
	query := `
        SELECT id, admin_id, shop_domain, access_token, name, created_at
        FROM tenants
        WHERE shop_domain = $1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, shopDomain), "find by shop domain")
}

func (r *TenantRepository) FirstByAdmin(ctx context.Context, adminID uuid.UUID) (*domain.Tenant, error) {
	query := `
        SELECT id, admin_id, shop_domain, access_token, name, created_at
        FROM tenants
        WHERE admin_id = $1
        ORDER BY created_at
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, adminID), "first by admin")
}

func (r *TenantRepository) scanOne(row *sql.Row, op string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.AdminID,
		&tenant.ShopDomain,
		&tenant.AccessToken,
		&tenant.Name,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tenant, nil
}
