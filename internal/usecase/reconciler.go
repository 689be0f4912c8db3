package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// Reconciler normalizes external records and upserts them into the tenant
// store. The same logic runs for bulk pulls and webhook pushes, so applying
// a record twice always converges on the same stored state — webhooks may
// be delivered more than once.
type Reconciler struct {
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	products  domain.ProductRepository
	metrics   *metrics.IngestionMetrics
	logger    *slog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	products domain.ProductRepository,
	m *metrics.IngestionMetrics,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		customers: customers,
		orders:    orders,
		products:  products,
		metrics:   m,
		logger:    logger,
	}
}

// ReconcileCustomer upserts one external customer record.
func (r *Reconciler) ReconcileCustomer(ctx context.Context, tenantID uuid.UUID, ext domain.ExternalCustomer) error {
	if ext.ID.String() == "" {
		return r.skip("customer", fmt.Errorf("%w: customer record missing id", domain.ErrReconciliation))
	}

	c := domain.Customer{
		ExternalID:  ext.ID.String(),
		TenantID:    tenantID,
		Email:       ext.Email,
		FirstName:   ext.FirstName,
		LastName:    ext.LastName,
		OrdersCount: ext.OrdersCount,
	}

	if ext.TotalSpent != nil {
		spent, err := strconv.ParseFloat(*ext.TotalSpent, 64)
		if err != nil {
			return r.skip("customer", fmt.Errorf("%w: customer %s total_spent %q: %v", domain.ErrReconciliation, c.ExternalID, *ext.TotalSpent, err))
		}
		c.TotalSpent = &spent
	}

	if err := r.customers.Upsert(ctx, c); err != nil {
		return fmt.Errorf("reconcile customer %s: %w", c.ExternalID, err)
	}
	r.count("customer", "reconciled")
	return nil
}

// ReconcileOrder upserts one external order record. Total price and event
// time are required; an unparsable price is a per-record reconciliation
// error, never fatal to a batch.
func (r *Reconciler) ReconcileOrder(ctx context.Context, tenantID uuid.UUID, ext domain.ExternalOrder) error {
	if ext.ID.String() == "" {
		return r.skip("order", fmt.Errorf("%w: order record missing id", domain.ErrReconciliation))
	}
	if ext.TotalPrice == nil {
		return r.skip("order", fmt.Errorf("%w: order %s missing total_price", domain.ErrReconciliation, ext.ID.String()))
	}
	total, err := strconv.ParseFloat(*ext.TotalPrice, 64)
	if err != nil {
		return r.skip("order", fmt.Errorf("%w: order %s total_price %q: %v", domain.ErrReconciliation, ext.ID.String(), *ext.TotalPrice, err))
	}
	if ext.CreatedAt == nil {
		return r.skip("order", fmt.Errorf("%w: order %s missing created_at", domain.ErrReconciliation, ext.ID.String()))
	}

	o := domain.Order{
		ExternalID:      ext.ID.String(),
		TenantID:        tenantID,
		TotalPrice:      total,
		FinancialStatus: ext.FinancialStatus,
		CreatedAt:       *ext.CreatedAt,
	}
	if ext.Customer != nil && ext.Customer.ID.String() != "" {
		id := ext.Customer.ID.String()
		o.CustomerID = &id
	}

	if err := r.orders.Upsert(ctx, o); err != nil {
		return fmt.Errorf("reconcile order %s: %w", o.ExternalID, err)
	}
	r.count("order", "reconciled")
	return nil
}

// ReconcileProduct upserts one external product record. The price, when
// present, comes from the first variant.
func (r *Reconciler) ReconcileProduct(ctx context.Context, tenantID uuid.UUID, ext domain.ExternalProduct) error {
	if ext.ID.String() == "" {
		return r.skip("product", fmt.Errorf("%w: product record missing id", domain.ErrReconciliation))
	}

	p := domain.Product{
		ExternalID: ext.ID.String(),
		TenantID:   tenantID,
		Title:      ext.Title,
	}

	if len(ext.Variants) > 0 && ext.Variants[0].Price != "" {
		price, err := strconv.ParseFloat(ext.Variants[0].Price, 64)
		if err != nil {
			return r.skip("product", fmt.Errorf("%w: product %s price %q: %v", domain.ErrReconciliation, p.ExternalID, ext.Variants[0].Price, err))
		}
		p.Price = &price
	}

	if err := r.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("reconcile product %s: %w", p.ExternalID, err)
	}
	r.count("product", "reconciled")
	return nil
}

func (r *Reconciler) skip(kind string, err error) error {
	r.count(kind, "skipped")
	return err
}

func (r *Reconciler) count(kind, status string) {
	if r.metrics != nil {
		r.metrics.RecordsTotal.WithLabelValues(kind, status).Inc()
	}
}
