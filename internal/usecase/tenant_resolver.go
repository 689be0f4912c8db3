package usecase

import (
	"context"
	"fmt"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// TenantResolver maps an authenticated admin to one of their tenants. When
// the caller names a tenant explicitly it is verified to belong to the
// admin; otherwise the admin's first tenant is used, preserving the legacy
// single-active-tenant behavior.
type TenantResolver struct {
	tenants domain.TenantRepository
}

// NewTenantResolver creates a new TenantResolver.
func NewTenantResolver(tenants domain.TenantRepository) *TenantResolver {
	return &TenantResolver{tenants: tenants}
}

// Resolve returns the tenant for adminID. Pass uuid.Nil as tenantID to fall
// back to the admin's first tenant. Returns domain.ErrNotFound when the
// admin has no tenant or the named tenant is not theirs.
func (r *TenantResolver) Resolve(ctx context.Context, adminID, tenantID uuid.UUID) (*domain.Tenant, error) {
	if tenantID == uuid.Nil {
		tenant, err := r.tenants.FirstByAdmin(ctx, adminID)
		if err != nil {
			return nil, fmt.Errorf("resolve tenant: %w", err)
		}
		if tenant == nil {
			return nil, domain.ErrNotFound
		}
		return tenant, nil
	}

	tenant, err := r.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	// Ownership check doubles as cross-tenant isolation for explicit ids.
	if tenant == nil || tenant.AdminID != adminID {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func tenantCacheKey(tenantID uuid.UUID, metric string) string {
	return fmt.Sprintf("tenant:%s:%s", tenantID, metric)
}

func tenantCachePrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:", tenantID)
}
