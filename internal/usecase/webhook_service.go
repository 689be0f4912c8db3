package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// WebhookService runs the push half of the ingestion pipeline. The platform
// posts single records identified by a shop-domain header; the service
// resolves the tenant, reconciles the record, and invalidates the tenant's
// cache before the handler acknowledges the delivery.
//
// Order webhooks additionally dispatch a best-effort refresh of the
// associated customer in a detached goroutine. Its failure never affects
// the webhook's response; the platform retries on non-2xx, and idempotent
// reconciliation makes redelivery safe.
type WebhookService struct {
	tenants        domain.TenantRepository
	shop           domain.ShopClient
	reconciler     *Reconciler
	cache          domain.MetricsCache
	metrics        *metrics.IngestionMetrics
	logger         *slog.Logger
	refreshTimeout time.Duration

	// wg tracks in-flight customer refreshes for graceful shutdown.
	wg sync.WaitGroup
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	tenants domain.TenantRepository,
	shop domain.ShopClient,
	reconciler *Reconciler,
	cache domain.MetricsCache,
	m *metrics.IngestionMetrics,
	refreshTimeout time.Duration,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		tenants:        tenants,
		shop:           shop,
		reconciler:     reconciler,
		cache:          cache,
		metrics:        m,
		logger:         logger,
		refreshTimeout: refreshTimeout,
	}
}

// HandleOrder reconciles one order pushed by the platform.
func (s *WebhookService) HandleOrder(ctx context.Context, shopDomain string, ext domain.ExternalOrder) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	if err := s.reconciler.ReconcileOrder(ctx, tenant.ID, ext); err != nil {
		return err
	}
	if err := s.invalidate(ctx, tenant.ID); err != nil {
		return err
	}

	// The record is settled; the customer refresh is decoupled from the
	// acknowledgment and runs against its own context so it survives the
	// request's cancellation.
	if ext.Customer != nil && ext.Customer.ID.String() != "" {
		s.wg.Add(1)
		go s.refreshCustomer(tenant, ext.Customer.ID.String())
	}

	return nil
}

// HandleCustomer reconciles one customer pushed by the platform.
func (s *WebhookService) HandleCustomer(ctx context.Context, shopDomain string, ext domain.ExternalCustomer) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	if err := s.reconciler.ReconcileCustomer(ctx, tenant.ID, ext); err != nil {
		return err
	}
	return s.invalidate(ctx, tenant.ID)
}

// HandleProduct reconciles one product pushed by the platform.
func (s *WebhookService) HandleProduct(ctx context.Context, shopDomain string, ext domain.ExternalProduct) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	if err := s.reconciler.ReconcileProduct(ctx, tenant.ID, ext); err != nil {
		return err
	}
	return s.invalidate(ctx, tenant.ID)
}

// HandleCheckout acknowledges checkout events without reconciling them.
// There is no checkout entity yet; accepting the delivery stops the
// platform from retrying.
func (s *WebhookService) HandleCheckout(ctx context.Context, shopDomain string) error {
	_, err := s.resolveTenant(ctx, shopDomain)
	return err
}

// Wait blocks until all in-flight customer refreshes finish. Called during
// graceful shutdown.
func (s *WebhookService) Wait() {
	s.wg.Wait()
}

func (s *WebhookService) resolveTenant(ctx context.Context, shopDomain string) (*domain.Tenant, error) {
	if shopDomain == "" {
		return nil, domain.ErrNotFound
	}
	tenant, err := s.tenants.FindByShopDomain(ctx, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("resolve webhook tenant: %w", err)
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *WebhookService) invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.cache.DeleteByPrefix(ctx, tenantCachePrefix(tenantID)); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CacheInvalidations.Inc()
	}
	return nil
}

// refreshCustomer pulls the customer's latest state from the platform and
// reconciles it. Errors feed observability only.
func (s *WebhookService) refreshCustomer(tenant *domain.Tenant, externalID string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
	defer cancel()

	ext, err := s.shop.FetchCustomer(ctx, tenant, externalID)
	if err != nil {
		s.followUpFailed(tenant, externalID, err)
		return
	}
	if err := s.reconciler.ReconcileCustomer(ctx, tenant.ID, *ext); err != nil {
		s.followUpFailed(tenant, externalID, err)
		return
	}
	if err := s.invalidate(ctx, tenant.ID); err != nil {
		s.followUpFailed(tenant, externalID, err)
	}
}

func (s *WebhookService) followUpFailed(tenant *domain.Tenant, externalID string, err error) {
	s.logger.Error("customer refresh failed", "tenant_id", tenant.ID, "customer_id", externalID, "error", err)
	if s.metrics != nil {
		s.metrics.FollowUpFailures.Inc()
	}
}
