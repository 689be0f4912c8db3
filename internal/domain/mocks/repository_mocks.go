package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// MockTenantRepository is a mock implementation of domain.TenantRepository.
type MockTenantRepository struct {
	mu       sync.Mutex
	Tenants  []*domain.Tenant
	StoreErr error
	FindErr  error
}

func (m *MockTenantRepository) Store(ctx context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	for _, existing := range m.Tenants {
		if existing.ShopDomain == t.ShopDomain {
			return domain.ErrConflict
		}
	}
	m.Tenants = append(m.Tenants, t)
	return nil
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, t := range m.Tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTenantRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, t := range m.Tenants {
		if t.ShopDomain == shopDomain {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTenantRepository) FirstByAdmin(ctx context.Context, adminID uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, t := range m.Tenants {
		if t.AdminID == adminID {
			return t, nil
		}
	}
	return nil, nil
}

// MockCustomerRepository is an in-memory domain.CustomerRepository that
// honors the partial-update contract: nil fields never overwrite stored
// values.
type MockCustomerRepository struct {
	mu          sync.Mutex
	Customers   map[string]domain.Customer
	UpsertCalls int
	UpsertErr   error
	FindErr     error
	CountErr    error
}

func customerKey(tenantID uuid.UUID, externalID string) string {
	return tenantID.String() + "/" + externalID
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, c domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Customers == nil {
		m.Customers = make(map[string]domain.Customer)
	}
	key := customerKey(c.TenantID, c.ExternalID)
	existing, ok := m.Customers[key]
	if !ok {
		m.Customers[key] = c
		return nil
	}
	if c.Email != nil {
		existing.Email = c.Email
	}
	if c.FirstName != nil {
		existing.FirstName = c.FirstName
	}
	if c.LastName != nil {
		existing.LastName = c.LastName
	}
	if c.OrdersCount != nil {
		existing.OrdersCount = c.OrdersCount
	}
	if c.TotalSpent != nil {
		existing.TotalSpent = c.TotalSpent
	}
	m.Customers[key] = existing
	return nil
}

func (m *MockCustomerRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if c, ok := m.Customers[customerKey(tenantID, externalID)]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MockCustomerRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	var n int64
	for key := range m.Customers {
		if strings.HasPrefix(key, tenantID.String()+"/") {
			n++
		}
	}
	return n, nil
}

// MockOrderRepository is a mock domain.OrderRepository. Upserts are stored
// in-memory; aggregation methods return canned rows so tests can script the
// store's answers. SpendByCustomer sorts and limits its canned rows to honor
// the repository contract.
type MockOrderRepository struct {
	mu          sync.Mutex
	Orders      map[string]domain.Order
	UpsertCalls int
	UpsertErr   error

	CountResult int64
	SumResult   float64
	SpendRows   []domain.CustomerSpend
	RecentRows  []domain.Order
	StatusRows  []domain.StatusCount
	DayRows     []domain.DayTotal
	MonthRows   []domain.MonthTotal

	CountErr  error
	SumErr    error
	SpendErr  error
	RecentErr error
	StatusErr error
	DayErr    error
	MonthErr  error
}

func orderKey(tenantID uuid.UUID, externalID string) string {
	return tenantID.String() + "/" + externalID
}

func (m *MockOrderRepository) Upsert(ctx context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Orders == nil {
		m.Orders = make(map[string]domain.Order)
	}
	key := orderKey(o.TenantID, o.ExternalID)
	existing, ok := m.Orders[key]
	if !ok {
		m.Orders[key] = o
		return nil
	}
	existing.TotalPrice = o.TotalPrice
	existing.CreatedAt = o.CreatedAt
	existing.CustomerID = o.CustomerID
	if o.FinancialStatus != nil {
		existing.FinancialStatus = o.FinancialStatus
	}
	m.Orders[key] = existing
	return nil
}

func (m *MockOrderRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.CountResult, nil
}

func (m *MockOrderRepository) SumTotalByTenant(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	if m.SumErr != nil {
		return 0, m.SumErr
	}
	return m.SumResult, nil
}

func (m *MockOrderRepository) SpendByCustomer(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CustomerSpend, error) {
	if m.SpendErr != nil {
		return nil, m.SpendErr
	}
	rows := make([]domain.CustomerSpend, len(m.SpendRows))
	copy(rows, m.SpendRows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MockOrderRepository) Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.Order, error) {
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	rows := m.RecentRows
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MockOrderRepository) CountByFinancialStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	return m.StatusRows, nil
}

func (m *MockOrderRepository) SumByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.DayTotal, error) {
	if m.DayErr != nil {
		return nil, m.DayErr
	}
	return m.DayRows, nil
}

func (m *MockOrderRepository) SumByMonth(ctx context.Context, tenantID uuid.UUID) ([]domain.MonthTotal, error) {
	if m.MonthErr != nil {
		return nil, m.MonthErr
	}
	return m.MonthRows, nil
}

// MockProductRepository is an in-memory domain.ProductRepository.
type MockProductRepository struct {
	mu          sync.Mutex
	Products    map[string]domain.Product
	UpsertCalls int
	UpsertErr   error
	CountErr    error
}

func (m *MockProductRepository) Upsert(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Products == nil {
		m.Products = make(map[string]domain.Product)
	}
	key := p.TenantID.String() + "/" + p.ExternalID
	existing, ok := m.Products[key]
	if !ok {
		m.Products[key] = p
		return nil
	}
	if p.Title != nil {
		existing.Title = p.Title
	}
	if p.Price != nil {
		existing.Price = p.Price
	}
	m.Products[key] = existing
	return nil
}

func (m *MockProductRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	var n int64
	for key := range m.Products {
		if strings.HasPrefix(key, tenantID.String()+"/") {
			n++
		}
	}
	return n, nil
}

// MockMetricsCache is an in-memory domain.MetricsCache that records deletes
// so tests can assert invalidation ordering.
type MockMetricsCache struct {
	mu              sync.Mutex
	Entries         map[string]string
	GetErr          error
	SetErr          error
	DeletedKeys     []string
	DeletedPrefixes []string
}

func (m *MockMetricsCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	if v, ok := m.Entries[key]; ok {
		return v, nil
	}
	return "", domain.ErrCacheMiss
}

func (m *MockMetricsCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Entries == nil {
		m.Entries = make(map[string]string)
	}
	m.Entries[key] = value
	return nil
}

func (m *MockMetricsCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, key)
	m.DeletedKeys = append(m.DeletedKeys, key)
	return nil
}

func (m *MockMetricsCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.Entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.Entries, key)
		}
	}
	m.DeletedPrefixes = append(m.DeletedPrefixes, prefix)
	return nil
}

// MockShopClient is a mock domain.ShopClient returning canned collections.
// FetchCustomerSignal, when non-nil, receives the requested external id so
// tests can synchronize with fire-and-forget refreshes.
type MockShopClient struct {
	mu        sync.Mutex
	Shop      *domain.ExternalShop
	Products  []domain.ExternalProduct
	Orders    []domain.ExternalOrder
	Customers []domain.ExternalCustomer
	Customer  *domain.ExternalCustomer

	ShopErr          error
	FetchErr         error
	FetchCustomerErr error

	FetchCustomerCalls  []string
	FetchCustomerSignal chan string
}

func (m *MockShopClient) FetchShop(ctx context.Context, shopDomain, accessToken string) (*domain.ExternalShop, error) {
	if m.ShopErr != nil {
		return nil, m.ShopErr
	}
	return m.Shop, nil
}

func (m *MockShopClient) FetchProducts(ctx context.Context, t *domain.Tenant) ([]domain.ExternalProduct, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Products, nil
}

func (m *MockShopClient) FetchOrders(ctx context.Context, t *domain.Tenant) ([]domain.ExternalOrder, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Orders, nil
}

func (m *MockShopClient) FetchCustomers(ctx context.Context, t *domain.Tenant) ([]domain.ExternalCustomer, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Customers, nil
}

func (m *MockShopClient) FetchCustomer(ctx context.Context, t *domain.Tenant, externalID string) (*domain.ExternalCustomer, error) {
	m.mu.Lock()
	m.FetchCustomerCalls = append(m.FetchCustomerCalls, externalID)
	m.mu.Unlock()
	if m.FetchCustomerSignal != nil {
		m.FetchCustomerSignal <- externalID
	}
	if m.FetchCustomerErr != nil {
		return nil, m.FetchCustomerErr
	}
	return m.Customer, nil
}
