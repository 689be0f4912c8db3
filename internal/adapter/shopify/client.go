package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"golang.org/x/time/rate"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// Client implements domain.ShopClient against the platform's admin REST
// API. Calls are bounded by the HTTP client timeout and throttled by a
// shared rate limiter so bulk syncs do not trip the platform's call limits.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiVersion string
	logger     *slog.Logger
	scheme     string
}

// NewClient creates a new platform API client.
func NewClient(apiVersion string, timeout time.Duration, rps float64, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		apiVersion: apiVersion,
		logger:     logger.With("component", "shopify_client"),
		scheme:     "https",
	}
}

func (c *Client) get(ctx context.Context, shopDomain, accessToken, path string, query url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", domain.ErrUpstream, err)
	}

	u := fmt.Sprintf("%s://%s/admin/api/%s/%s", c.scheme, shopDomain, c.apiVersion, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set(accessTokenHeader, accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", domain.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, path, err)
	}

	return nil
}

// FetchShop validates a shop domain and access token by loading the shop
// resource. Used by the store-connect handshake.
func (c *Client) FetchShop(ctx context.Context, shopDomain, accessToken string) (*domain.ExternalShop, error) {
	var payload struct {
		Shop *domain.ExternalShop `json:"shop"`
	}
	if err := c.get(ctx, shopDomain, accessToken, "shop.json", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Shop == nil {
		return nil, fmt.Errorf("%w: shop.json returned no shop", domain.ErrUpstream)
	}
	return payload.Shop, nil
}

// FetchProducts fetches the tenant's full product collection.
func (c *Client) FetchProducts(ctx context.Context, t *domain.Tenant) ([]domain.ExternalProduct, error) {
	var payload struct {
		Products []domain.ExternalProduct `json:"products"`
	}
	if err := c.get(ctx, t.ShopDomain, t.AccessToken, "products.json", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// FetchOrders fetches the tenant's full order collection, any status.
func (c *Client) FetchOrders(ctx context.Context, t *domain.Tenant) ([]domain.ExternalOrder, error) {
	var payload struct {
		Orders []domain.ExternalOrder `json:"orders"`
	}
	query := url.Values{"status": {"any"}}
	if err := c.get(ctx, t.ShopDomain, t.AccessToken, "orders.json", query, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// FetchCustomers fetches the tenant's full customer collection.
func (c *Client) FetchCustomers(ctx context.Context, t *domain.Tenant) ([]domain.ExternalCustomer, error) {
	var payload struct {
		Customers []domain.ExternalCustomer `json:"customers"`
	}
	if err := c.get(ctx, t.ShopDomain, t.AccessToken, "customers.json", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Customers, nil
}

// FetchCustomer fetches one customer's latest state by external id.
func (c *Client) FetchCustomer(ctx context.Context, t *domain.Tenant, externalID string) (*domain.ExternalCustomer, error) {
	var payload struct {
		Customer *domain.ExternalCustomer `json:"customer"`
	}
	path := fmt.Sprintf("customers/%s.json", externalID)
	if err := c.get(ctx, t.ShopDomain, t.AccessToken, path, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Customer == nil {
		return nil, fmt.Errorf("%w: %s returned no customer", domain.ErrUpstream, path)
	}
	return payload.Customer, nil
}
