package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/V4T54L/shopmetrics/internal/domain/mocks"
	"github.com/google/uuid"
)

type metricsFixture struct {
	tenants   *mocks.MockTenantRepository
	customers *mocks.MockCustomerRepository
	orders    *mocks.MockOrderRepository
	cache     *mocks.MockMetricsCache
	service   *MetricsService
	tenant    *domain.Tenant
	adminID   uuid.UUID
}

func newMetricsFixture() *metricsFixture {
	f := &metricsFixture{
		tenants:   &mocks.MockTenantRepository{},
		customers: &mocks.MockCustomerRepository{},
		orders:    &mocks.MockOrderRepository{},
		cache:     &mocks.MockMetricsCache{},
		adminID:   uuid.New(),
	}
	f.tenant = &domain.Tenant{
		ID:         uuid.New(),
		AdminID:    f.adminID,
		ShopDomain: "demo.myshopify.com",
	}
	f.tenants.Tenants = append(f.tenants.Tenants, f.tenant)

	f.service = NewMetricsService(
		NewTenantResolver(f.tenants),
		f.customers, f.orders, f.cache,
		5*time.Minute, 5, 5, nil, discardLogger(),
	)
	return f
}

func (f *metricsFixture) key(metric string) string {
	return "tenant:" + f.tenant.ID.String() + ":" + metric
}

func TestMetricsService_Overview(t *testing.T) {
	t.Run("No Tenant", func(t *testing.T) {
		f := newMetricsFixture()
		if _, err := f.service.Overview(context.Background(), uuid.New(), uuid.Nil); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Computes, Rounds And Populates Cache", func(t *testing.T) {
		f := newMetricsFixture()
		f.orders.CountResult = 4
		f.orders.SumResult = 1249.51

		got, err := f.service.Overview(context.Background(), f.adminID, uuid.Nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Orders != 4 || got.Revenue != 1250 {
			t.Errorf("expected 4 orders / revenue 1250, got %+v", got)
		}
		if _, ok := f.cache.Entries[f.key("overview")]; !ok {
			t.Error("expected overview entry written to cache")
		}
	})

	t.Run("Cache Hit Skips Store", func(t *testing.T) {
		f := newMetricsFixture()
		f.cache.Entries = map[string]string{
			f.key("overview"): `{"customers":7,"orders":3,"revenue":99}`,
		}
		// A store error proves the repositories were never consulted.
		f.orders.CountErr = errors.New("store down")
		f.customers.CountErr = errors.New("store down")

		got, err := f.service.Overview(context.Background(), f.adminID, uuid.Nil)
		if err != nil {
			t.Fatalf("expected cache hit, got %v", err)
		}
		if got.Customers != 7 || got.Orders != 3 || got.Revenue != 99 {
			t.Errorf("unexpected cached overview: %+v", got)
		}
	})

	t.Run("Corrupt Entry Is Cleared And Recomputed", func(t *testing.T) {
		f := newMetricsFixture()
		f.cache.Entries = map[string]string{f.key("overview"): "not json"}
		f.orders.CountResult = 2

		got, err := f.service.Overview(context.Background(), f.adminID, uuid.Nil)
		if err != nil {
			t.Fatalf("expected recompute, got %v", err)
		}
		if got.Orders != 2 {
			t.Errorf("expected recomputed overview, got %+v", got)
		}
		if len(f.cache.DeletedKeys) != 1 || f.cache.DeletedKeys[0] != f.key("overview") {
			t.Errorf("expected corrupt entry deleted, got %v", f.cache.DeletedKeys)
		}
	})
}

func TestMetricsService_TopCustomers(t *testing.T) {
	f := newMetricsFixture()
	f.customers.Customers = map[string]domain.Customer{
		f.tenant.ID.String() + "/101": {ExternalID: "101", TenantID: f.tenant.ID, FirstName: strPtr("Jo"), LastName: strPtr("Nakamura")},
		f.tenant.ID.String() + "/102": {ExternalID: "102", TenantID: f.tenant.ID, Email: strPtr("mail@example.com")},
		f.tenant.ID.String() + "/103": {ExternalID: "103", TenantID: f.tenant.ID},
	}
	f.orders.SpendRows = []domain.CustomerSpend{
		{CustomerID: strPtr("101"), Total: 50, Orders: 1},
		{CustomerID: strPtr("102"), Total: 200, Orders: 4},
		{CustomerID: strPtr("103"), Total: 75, Orders: 2},
	}

	got, err := f.service.TopCustomers(context.Background(), f.adminID, uuid.Nil, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Spent != 200 || got[1].Spent != 75 {
		t.Errorf("expected spends [200 75], got [%v %v]", got[0].Spent, got[1].Spent)
	}
	if got[0].Name != "mail@example.com" {
		t.Errorf("expected email fallback name, got %q", got[0].Name)
	}
	if got[1].Name != "Unknown" {
		t.Errorf("expected Unknown for anonymous customer, got %q", got[1].Name)
	}
}

func TestMetricsService_TopCustomersDefaultLimit(t *testing.T) {
	f := newMetricsFixture()
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		f.orders.SpendRows = append(f.orders.SpendRows, domain.CustomerSpend{
			CustomerID: strPtr(id), Total: float64(i), Orders: 1,
		})
	}

	got, err := f.service.TopCustomers(context.Background(), f.adminID, uuid.Nil, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected default limit of 5, got %d rows", len(got))
	}
}

func TestMetricsService_RecentOrders(t *testing.T) {
	f := newMetricsFixture()
	created := time.Date(2025, 8, 20, 14, 0, 0, 0, time.UTC)
	f.customers.Customers = map[string]domain.Customer{
		f.tenant.ID.String() + "/101": {ExternalID: "101", TenantID: f.tenant.ID, FirstName: strPtr("Jo")},
	}
	f.orders.RecentRows = []domain.Order{
		{ExternalID: "2", TenantID: f.tenant.ID, TotalPrice: 80, FinancialStatus: strPtr("paid"), CreatedAt: created, CustomerID: strPtr("101")},
		{ExternalID: "1", TenantID: f.tenant.ID, TotalPrice: 20, CreatedAt: created.Add(-time.Hour)},
	}

	got, err := f.service.RecentOrders(context.Background(), f.adminID, uuid.Nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Customer != "Jo" || got[0].Status != "paid" {
		t.Errorf("unexpected first row: %+v", got[0])
	}
	if got[1].Customer != "Unknown" || got[1].Status != "N/A" {
		t.Errorf("expected placeholders for anonymous order, got %+v", got[1])
	}
}

func TestMetricsService_FinancialStatus(t *testing.T) {
	f := newMetricsFixture()
	f.orders.StatusRows = []domain.StatusCount{
		{Status: strPtr("paid"), Count: 10},
		{Status: nil, Count: 3},
		{Status: strPtr(""), Count: 2},
	}

	got, err := f.service.FinancialStatus(context.Background(), f.adminID, uuid.Nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got))
	}
	if got[1].Status != "UNKNOWN" || got[2].Status != "UNKNOWN" {
		t.Errorf("expected missing statuses bucketed as UNKNOWN, got %+v", got)
	}
}

func TestMetricsService_DailyIncome(t *testing.T) {
	f := newMetricsFixture()
	// February of a leap year pins the zero-fill length at 29.
	f.service.now = func() time.Time {
		return time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)
	}
	f.orders.DayRows = []domain.DayTotal{
		{Day: 3, Total: 40},
		{Day: 29, Total: 15.5},
	}

	got, err := f.service.DailyIncome(context.Background(), f.adminID, uuid.Nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 29 {
		t.Fatalf("expected 29 entries for Feb 2024, got %d", len(got))
	}
	if got[2].Income != 40 || got[28].Income != 15.5 {
		t.Errorf("expected totals on days 3 and 29, got %+v", got)
	}
	if got[0].Day != 1 || got[0].Income != 0 {
		t.Errorf("expected zero-filled first day, got %+v", got[0])
	}
}

func TestMetricsService_MonthlySales(t *testing.T) {
	f := newMetricsFixture()
	f.orders.MonthRows = []domain.MonthTotal{
		{Month: time.March, Total: 300},
		{Month: time.December, Total: 120},
	}

	got, err := f.service.MonthlySales(context.Background(), f.adminID, uuid.Nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("expected 12 months, got %d", len(got))
	}
	if got[0].Month != "Jan" || got[11].Month != "Dec" {
		t.Errorf("unexpected labels: %q, %q", got[0].Month, got[11].Month)
	}
	if got[2].Sales != 300 || got[11].Sales != 120 {
		t.Errorf("expected sales on Mar and Dec, got %+v", got)
	}
	if got[5].Sales != 0 {
		t.Errorf("expected zero-filled June, got %v", got[5].Sales)
	}
}
