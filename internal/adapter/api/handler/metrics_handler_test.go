package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/V4T54L/shopmetrics/internal/adapter/api/middleware"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/V4T54L/shopmetrics/internal/domain/mocks"
	"github.com/V4T54L/shopmetrics/internal/usecase"
	"github.com/google/uuid"
)

type metricsHandlerFixture struct {
	handler *MetricsHandler
	orders  *mocks.MockOrderRepository
	adminID uuid.UUID
}

func newMetricsHandlerFixture() *metricsHandlerFixture {
	f := &metricsHandlerFixture{orders: &mocks.MockOrderRepository{}, adminID: uuid.New()}
	tenants := &mocks.MockTenantRepository{}
	tenants.Tenants = append(tenants.Tenants, &domain.Tenant{
		ID:         uuid.New(),
		AdminID:    f.adminID,
		ShopDomain: "demo.myshopify.com",
	})

	logger := discardLogger()
	service := usecase.NewMetricsService(
		usecase.NewTenantResolver(tenants),
		&mocks.MockCustomerRepository{}, f.orders, &mocks.MockMetricsCache{},
		5*time.Minute, 5, 5, nil, logger,
	)
	f.handler = NewMetricsHandler(service, logger)
	return f
}

func (f *metricsHandlerFixture) get(h http.HandlerFunc, target string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authenticated {
		req = req.WithContext(middleware.WithAdminID(req.Context(), f.adminID))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestMetricsHandler_GetOverview(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newMetricsHandlerFixture()
		f.orders.CountResult = 3
		f.orders.SumResult = 150

		rec := f.get(f.handler.GetOverview, "/metrics/getOverview", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var body domain.Overview
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Orders != 3 || body.Revenue != 150 {
			t.Errorf("unexpected overview: %+v", body)
		}
	})

	t.Run("No Tenant", func(t *testing.T) {
		f := newMetricsHandlerFixture()
		f.adminID = uuid.New() // admin with no connected store

		rec := f.get(f.handler.GetOverview, "/metrics/getOverview", true)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		f := newMetricsHandlerFixture()
		rec := f.get(f.handler.GetOverview, "/metrics/getOverview", false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestMetricsHandler_GetTopCustomers(t *testing.T) {
	f := newMetricsHandlerFixture()
	f.orders.SpendRows = []domain.CustomerSpend{
		{CustomerID: ptr("101"), Total: 200, Orders: 4},
		{CustomerID: ptr("102"), Total: 75, Orders: 2},
		{CustomerID: ptr("103"), Total: 50, Orders: 1},
	}

	rec := f.get(f.handler.GetTopCustomers, "/metrics/getTopCustomers?limit=2", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []domain.TopCustomer
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected limit honored, got %d rows", len(body))
	}
	if body[0].Spent != 200 || body[1].Spent != 75 {
		t.Errorf("expected descending spends, got %+v", body)
	}
}

func TestMetricsHandler_MonthlySale(t *testing.T) {
	f := newMetricsHandlerFixture()
	f.orders.MonthRows = []domain.MonthTotal{{Month: time.July, Total: 300}}

	rec := f.get(f.handler.MonthlySale, "/metrics/monthlySale", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body []domain.MonthlySales
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 12 || body[6].Month != "Jul" || body[6].Sales != 300 {
		t.Errorf("unexpected monthly sales: %+v", body)
	}
}
