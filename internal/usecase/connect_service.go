package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// ConnectService performs the store-connect handshake: verify the shop
// domain and access credential against the platform, then create the
// tenant. Exactly one tenant may exist per shop domain; the store's unique
// constraint enforces that, surfaced as domain.ErrConflict.
type ConnectService struct {
	tenants domain.TenantRepository
	shop    domain.ShopClient
	cache   domain.MetricsCache
	logger  *slog.Logger
}

// NewConnectService creates a new ConnectService.
func NewConnectService(tenants domain.TenantRepository, shop domain.ShopClient, cache domain.MetricsCache, logger *slog.Logger) *ConnectService {
	return &ConnectService{
		tenants: tenants,
		shop:    shop,
		cache:   cache,
		logger:  logger,
	}
}

// ConnectStore validates the credentials and creates the tenant for adminID.
func (s *ConnectService) ConnectStore(ctx context.Context, adminID uuid.UUID, shopDomain, accessToken string) (*domain.Tenant, error) {
	shop, err := s.shop.FetchShop(ctx, shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{
		ID:          uuid.New(),
		AdminID:     adminID,
		ShopDomain:  shop.MyshopifyDomain,
		AccessToken: accessToken,
		Name:        shop.Name,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.tenants.Store(ctx, tenant); err != nil {
		return nil, err
	}

	// Drop any stale entries left over from a previous connection of the
	// same tenant id space. Best effort; the cache is rebuilt lazily.
	if err := s.cache.DeleteByPrefix(ctx, tenantCachePrefix(tenant.ID)); err != nil {
		s.logger.Warn("failed to clear cache for new tenant", "tenant_id", tenant.ID, "error", err)
	}

	s.logger.Info("store connected", "tenant_id", tenant.ID, "shop_domain", tenant.ShopDomain)
	return tenant, nil
}
