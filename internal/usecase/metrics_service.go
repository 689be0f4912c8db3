package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MetricsService computes dashboard aggregates from the tenant store with a
// read-through cache. An entry that fails to deserialize is deleted and the
// aggregate recomputed, so a corrupt cache self-heals instead of surfacing
// an error.
type MetricsService struct {
	resolver    *TenantResolver
	customers   domain.CustomerRepository
	orders      domain.OrderRepository
	cache       domain.MetricsCache
	ttl         time.Duration
	topLimit    int
	recentLimit int
	metrics     *metrics.IngestionMetrics
	logger      *slog.Logger

	// now is swappable for calendar-dependent aggregates in tests.
	now func() time.Time
}

// NewMetricsService creates a new MetricsService. topLimit and recentLimit
// bound the top-customers and recent-orders feeds; non-positive values fall
// back to 5.
func NewMetricsService(
	resolver *TenantResolver,
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	cache domain.MetricsCache,
	ttl time.Duration,
	topLimit, recentLimit int,
	m *metrics.IngestionMetrics,
	logger *slog.Logger,
) *MetricsService {
	if topLimit <= 0 {
		topLimit = 5
	}
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &MetricsService{
		resolver:    resolver,
		customers:   customers,
		orders:      orders,
		cache:       cache,
		ttl:         ttl,
		topLimit:    topLimit,
		recentLimit: recentLimit,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// Overview returns distinct customer and order counts plus total revenue.
func (s *MetricsService) Overview(ctx context.Context, adminID, tenantID uuid.UUID) (*domain.Overview, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}

	key := tenantCacheKey(tenant.ID, "overview")
	var cached domain.Overview
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	customers, err := s.customers.CountByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	orders, err := s.orders.CountByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	revenue, err := s.orders.SumTotalByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	result := &domain.Overview{
		Customers: customers,
		Orders:    orders,
		Revenue:   math.Round(revenue),
	}
	s.toCache(ctx, key, result)
	return result, nil
}

// TopCustomers returns the limit highest-spending customers, resolved to
// display names. A non-positive limit falls back to the configured default.
func (s *MetricsService) TopCustomers(ctx context.Context, adminID, tenantID uuid.UUID, limit int) ([]domain.TopCustomer, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.topLimit
	}

	key := tenantCacheKey(tenant.ID, fmt.Sprintf("topcustomers:%d", limit))
	var cached []domain.TopCustomer
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.orders.SpendByCustomer(ctx, tenant.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}

	result := make([]domain.TopCustomer, 0, len(rows))
	for _, row := range rows {
		var customer *domain.Customer
		if row.CustomerID != nil {
			customer, err = s.customers.FindByExternalID(ctx, tenant.ID, *row.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("top customers: %w", err)
			}
		}
		result = append(result, domain.TopCustomer{
			Name:   customer.DisplayName(),
			Spent:  row.Total,
			Orders: row.Orders,
		})
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// RecentOrders returns the most recent orders annotated with resolved
// customer names.
func (s *MetricsService) RecentOrders(ctx context.Context, adminID, tenantID uuid.UUID) ([]domain.RecentOrder, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}

	key := tenantCacheKey(tenant.ID, "recentorders")
	var cached []domain.RecentOrder
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	orders, err := s.orders.Recent(ctx, tenant.ID, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	result := make([]domain.RecentOrder, 0, len(orders))
	for _, o := range orders {
		var customer *domain.Customer
		if o.CustomerID != nil {
			customer, err = s.customers.FindByExternalID(ctx, tenant.ID, *o.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("recent orders: %w", err)
			}
		}
		status := "N/A"
		if o.FinancialStatus != nil && *o.FinancialStatus != "" {
			status = *o.FinancialStatus
		}
		result = append(result, domain.RecentOrder{
			Customer: customer.DisplayName(),
			Amount:   o.TotalPrice,
			Status:   status,
			Date:     o.CreatedAt,
		})
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// FinancialStatus returns order counts grouped by financial status, with
// absent statuses bucketed as UNKNOWN.
func (s *MetricsService) FinancialStatus(ctx context.Context, adminID, tenantID uuid.UUID) ([]domain.FinancialStatusCount, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}

	key := tenantCacheKey(tenant.ID, "financialstatus")
	var cached []domain.FinancialStatusCount
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.orders.CountByFinancialStatus(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("financial status: %w", err)
	}

	result := make([]domain.FinancialStatusCount, 0, len(rows))
	for _, row := range rows {
		status := "UNKNOWN"
		if row.Status != nil && *row.Status != "" {
			status = *row.Status
		}
		result = append(result, domain.FinancialStatusCount{Status: status, Count: row.Count})
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// DailyIncome returns revenue per day of the current calendar month, with
// one zero-filled entry for every day.
func (s *MetricsService) DailyIncome(ctx context.Context, adminID, tenantID uuid.UUID) ([]domain.DailyIncome, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}

	key := tenantCacheKey(tenant.ID, "dailyincome")
	var cached []domain.DailyIncome
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	rows, err := s.orders.SumByDay(ctx, tenant.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily income: %w", err)
	}

	byDay := make(map[int]float64, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.Total
	}

	daysInMonth := end.AddDate(0, 0, -1).Day()
	result := make([]domain.DailyIncome, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		result[day-1] = domain.DailyIncome{Day: day, Income: byDay[day]}
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// MonthlySales returns revenue per calendar month across all orders,
// labeled with month abbreviations and zero-filled.
func (s *MetricsService) MonthlySales(ctx context.Context, adminID, tenantID uuid.UUID) ([]domain.MonthlySales, error) {
	tenant, err := s.resolver.Resolve(ctx, adminID, tenantID)
	if err != nil {
		return nil, err
	}

	key := tenantCacheKey(tenant.ID, "monthlysale")
	var cached []domain.MonthlySales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.orders.SumByMonth(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	result := make([]domain.MonthlySales, 12)
	for i, label := range monthLabels {
		result[i] = domain.MonthlySales{Month: label}
	}
	for _, row := range rows {
		if row.Month >= time.January && row.Month <= time.December {
			result[row.Month-1].Sales += row.Total
		}
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// fromCache reports whether key held a usable entry and decoded it into
// dest. A corrupt entry is deleted so the caller recomputes.
func (s *MetricsService) fromCache(ctx context.Context, key string, dest any) bool {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		s.logger.Warn("corrupt cache entry, clearing", "key", key, "error", err)
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clear corrupt cache entry", "key", key, "error", delErr)
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return true
}

// toCache stores the computed aggregate. Failures are logged only; the
// cache is not authoritative and the caller already has the result.
func (s *MetricsService) toCache(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logger.Warn("failed to populate cache", "key", key, "error", err)
	}
}
