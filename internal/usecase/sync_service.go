package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// SyncService runs the bulk-pull half of the ingestion pipeline: fetch the
// full collection from the platform, reconcile every record, then
// invalidate the tenant's metrics cache before reporting success so the
// next metrics read is guaranteed fresh.
//
// A fetch failure aborts the whole batch. A per-record reconciliation
// failure is logged, counted and skipped; the batch continues.
type SyncService struct {
	resolver   *TenantResolver
	shop       domain.ShopClient
	reconciler *Reconciler
	cache      domain.MetricsCache
	metrics    *metrics.IngestionMetrics
	logger     *slog.Logger
}

// SyncResult reports the outcome of one bulk sync.
type SyncResult struct {
	Processed int `json:"count"`
	Skipped   int `json:"skipped"`
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	resolver *TenantResolver,
	shop domain.ShopClient,
	reconciler *Reconciler,
	cache domain.MetricsCache,
	m *metrics.IngestionMetrics,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		resolver:   resolver,
		shop:       shop,
		reconciler: reconciler,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

// SyncProducts pulls and reconciles the tenant's full product collection.
func (s *SyncService) SyncProducts(ctx context.Context, adminID, tenantID uuid.UUID) (SyncResult, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return SyncResult{}, s.fail("product", err)
	}

	records, err := s.shop.FetchProducts(ctx, tenant)
	if err != nil {
		return SyncResult{}, s.fail("product", err)
	}

	var res SyncResult
	for _, rec := range records {
		if err := s.reconciler.ReconcileProduct(ctx, tenant.ID, rec); err != nil {
			if errors.Is(err, domain.ErrReconciliation) {
				s.logger.Warn("skipping product record", "tenant_id", tenant.ID, "error", err)
				res.Skipped++
				continue
			}
			return res, s.fail("product", err)
		}
		res.Processed++
	}

	if err := s.invalidate(ctx, tenant.ID); err != nil {
		return res, s.fail("product", err)
	}
	s.count("product", "ok")
	s.logger.Info("product sync complete", "tenant_id", tenant.ID, "processed", res.Processed, "skipped", res.Skipped)
	return res, nil
}

// SyncOrders pulls and reconciles the tenant's full order collection.
func (s *SyncService) SyncOrders(ctx context.Context, adminID, tenantID uuid.UUID) (SyncResult, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return SyncResult{}, s.fail("order", err)
	}

	records, err := s.shop.FetchOrders(ctx, tenant)
	if err != nil {
		return SyncResult{}, s.fail("order", err)
	}

	var res SyncResult
	for _, rec := range records {
		if err := s.reconciler.ReconcileOrder(ctx, tenant.ID, rec); err != nil {
			if errors.Is(err, domain.ErrReconciliation) {
				s.logger.Warn("skipping order record", "tenant_id", tenant.ID, "error", err)
				res.Skipped++
				continue
			}
			return res, s.fail("order", err)
		}
		res.Processed++
	}

	if err := s.invalidate(ctx, tenant.ID); err != nil {
		return res, s.fail("order", err)
	}
	s.count("order", "ok")
	s.logger.Info("order sync complete", "tenant_id", tenant.ID, "processed", res.Processed, "skipped", res.Skipped)
	return res, nil
}

// SyncCustomers pulls and reconciles the tenant's full customer collection.
func (s *SyncService) SyncCustomers(ctx context.Context, adminID, tenantID uuid.UUID) (SyncResult, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return SyncResult{}, s.fail("customer", err)
	}

	records, err := s.shop.FetchCustomers(ctx, tenant)
	if err != nil {
		return SyncResult{}, s.fail("customer", err)
	}

	var res SyncResult
	for _, rec := range records {
		if err := s.reconciler.ReconcileCustomer(ctx, tenant.ID, rec); err != nil {
			if errors.Is(err, domain.ErrReconciliation) {
				s.logger.Warn("skipping customer record", "tenant_id", tenant.ID, "error", err)
				res.Skipped++
				continue
			}
			return res, s.fail("customer", err)
		}
		res.Processed++
	}

	if err := s.invalidate(ctx, tenant.ID); err != nil {
		return res, s.fail("customer", err)
	}
	s.count("customer", "ok")
	s.logger.Info("customer sync complete", "tenant_id", tenant.ID, "processed", res.Processed, "skipped", res.Skipped)
	return res, nil
}

// invalidate clears every cache entry for the tenant. It runs before the
// sync is reported successful; a write is not settled until the derived
// caches covering it are gone.
func (s *SyncService) invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.cache.DeleteByPrefix(ctx, tenantCachePrefix(tenantID)); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CacheInvalidations.Inc()
	}
	return nil
}

func (s *SyncService) fail(kind string, err error) error {
	s.count(kind, "error")
	return err
}

func (s *SyncService) count(kind, status string) {
	if s.metrics != nil {
		s.metrics.SyncsTotal.WithLabelValues(kind, status).Inc()
	}
}
