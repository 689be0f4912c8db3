package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence.
// Lookup methods return (nil, nil) when no tenant matches.
type TenantRepository interface {
	Store(ctx context.Context, t *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByShopDomain(ctx context.Context, shopDomain string) (*Tenant, error)

	// FirstByAdmin returns the admin's oldest tenant. Kept for the legacy
	// single-active-tenant behavior when no explicit tenant is selected.
	FirstByAdmin(ctx context.Context, adminID uuid.UUID) (*Tenant, error)
}

// CustomerRepository persists external customer records. Upsert applies
// partial-update semantics: nil fields never overwrite stored values.
type CustomerRepository interface {
	Upsert(ctx context.Context, c Customer) error
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Customer, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// OrderRepository persists external order records and serves the
// tenant-scoped aggregations behind the metrics engine. Every query takes a
// tenant id; there is deliberately no unscoped variant.
type OrderRepository interface {
	Upsert(ctx context.Context, o Order) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	SumTotalByTenant(ctx context.Context, tenantID uuid.UUID) (float64, error)

	// SpendByCustomer groups orders by customer, summing spend and counting
	// orders, sorted by summed spend descending, limited to limit rows.
	SpendByCustomer(ctx context.Context, tenantID uuid.UUID, limit int) ([]CustomerSpend, error)

	// Recent returns the latest orders by created timestamp descending.
	Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]Order, error)

	CountByFinancialStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)

	// SumByDay buckets revenue by day of month for orders created in
	// [from, to). Days with no orders are absent from the result.
	SumByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]DayTotal, error)

	// SumByMonth buckets revenue by calendar month across all orders.
	SumByMonth(ctx context.Context, tenantID uuid.UUID) ([]MonthTotal, error)
}

// ProductRepository persists external product records.
type ProductRepository interface {
	Upsert(ctx context.Context, p Product) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// MetricsCache is the ephemeral key-value store for precomputed aggregates.
// Get returns ErrCacheMiss when no entry exists.
type MetricsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with prefix.
	// A prefix matching nothing is a no-op, not an error.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ShopClient fetches records from the upstream platform on behalf of a
// tenant. All calls are bounded by the client's timeout; failures wrap
// ErrUpstream.
type ShopClient interface {
	FetchShop(ctx context.Context, shopDomain, accessToken string) (*ExternalShop, error)
	FetchProducts(ctx context.Context, t *Tenant) ([]ExternalProduct, error)
	FetchOrders(ctx context.Context, t *Tenant) ([]ExternalOrder, error)
	FetchCustomers(ctx context.Context, t *Tenant) ([]ExternalCustomer, error)
	FetchCustomer(ctx context.Context, t *Tenant, externalID string) (*ExternalCustomer, error)
}
