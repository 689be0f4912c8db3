package shopify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("2025-01", 5*time.Second, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.scheme = "http"
	return c, srv
}

func serverDomain(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestClient_FetchShop(t *testing.T) {
	var gotPath, gotToken string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get(accessTokenHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"shop":{"myshopify_domain":"demo.myshopify.com","name":"Demo Store"}}`))
	}))
	defer srv.Close()

	shop, err := c.FetchShop(context.Background(), serverDomain(srv), "shpat_x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if shop.MyshopifyDomain != "demo.myshopify.com" || shop.Name != "Demo Store" {
		t.Errorf("unexpected shop: %+v", shop)
	}
	if gotPath != "/admin/api/2025-01/shop.json" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotToken != "shpat_x" {
		t.Errorf("expected access token header, got %q", gotToken)
	}
}

func TestClient_FetchOrders(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[{"id":9001,"total_price":"45.99","financial_status":"paid"},{"id":"9002"}]}`))
	}))
	defer srv.Close()

	tenant := &domain.Tenant{ShopDomain: serverDomain(srv), AccessToken: "shpat_x"}
	orders, err := c.FetchOrders(context.Background(), tenant)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Numeric and string ids both normalize via json.Number.
	if orders[0].ID.String() != "9001" || orders[1].ID.String() != "9002" {
		t.Errorf("unexpected ids: %s, %s", orders[0].ID, orders[1].ID)
	}
	if gotQuery != "status=any" {
		t.Errorf("expected status=any query, got %q", gotQuery)
	}
}

func TestClient_FetchCustomer(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/customers/101.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"customer":{"id":101,"email":"jo@example.com"}}`))
	}))
	defer srv.Close()

	tenant := &domain.Tenant{ShopDomain: serverDomain(srv), AccessToken: "shpat_x"}
	customer, err := c.FetchCustomer(context.Background(), tenant, "101")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if customer.Email == nil || *customer.Email != "jo@example.com" {
		t.Errorf("unexpected customer: %+v", customer)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.FetchShop(context.Background(), serverDomain(srv), "bad-token")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"shop":`))
	}))
	defer srv.Close()

	_, err := c.FetchShop(context.Background(), serverDomain(srv), "shpat_x")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := c.FetchShop(context.Background(), serverDomain(srv), "shpat_x")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
