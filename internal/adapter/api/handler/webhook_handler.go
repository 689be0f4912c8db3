package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/V4T54L/shopmetrics/internal/usecase"
)

// ShopDomainHeader identifies the originating shop on webhook deliveries.
const ShopDomainHeader = "X-Shopify-Shop-Domain"

// WebhookHandler receives single-record pushes from the platform. Every
// delivery gets a terminal status: the platform retries on non-2xx, and
// idempotent reconciliation makes redelivery safe.
type WebhookHandler struct {
	webhooks *usecase.WebhookService
	metrics  *metrics.IngestionMetrics
	logger   *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhooks *usecase.WebhookService, m *metrics.IngestionMetrics, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, metrics: m, logger: logger}
}

// Order handles POST /webhooks/orders/{create|updated}.
func (h *WebhookHandler) Order(w http.ResponseWriter, r *http.Request) {
	var payload domain.ExternalOrder
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.finish(w, "orders", http.StatusBadRequest, "Malformed order payload")
		return
	}

	err := h.webhooks.HandleOrder(r.Context(), r.Header.Get(ShopDomainHeader), payload)
	h.respond(w, r, "orders", "Order processed", err)
}

// Customer handles POST /webhooks/customers/{create|updated}.
func (h *WebhookHandler) Customer(w http.ResponseWriter, r *http.Request) {
	var payload domain.ExternalCustomer
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.finish(w, "customers", http.StatusBadRequest, "Malformed customer payload")
		return
	}

	err := h.webhooks.HandleCustomer(r.Context(), r.Header.Get(ShopDomainHeader), payload)
	h.respond(w, r, "customers", "Customer processed", err)
}

// Product handles POST /webhooks/products/{create|updated}.
func (h *WebhookHandler) Product(w http.ResponseWriter, r *http.Request) {
	var payload domain.ExternalProduct
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.finish(w, "products", http.StatusBadRequest, "Malformed product payload")
		return
	}

	err := h.webhooks.HandleProduct(r.Context(), r.Header.Get(ShopDomainHeader), payload)
	h.respond(w, r, "products", "Product processed", err)
}

// Checkout handles POST /webhooks/checkouts/{create|update}. Accepted but
// not reconciled; there is no checkout entity yet.
func (h *WebhookHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	err := h.webhooks.HandleCheckout(r.Context(), r.Header.Get(ShopDomainHeader))
	h.respond(w, r, "checkouts", "Checkout acknowledged", err)
}

func (h *WebhookHandler) respond(w http.ResponseWriter, r *http.Request, topic, okMsg string, err error) {
	switch {
	case err == nil:
		h.count(topic, "ok")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(okMsg))
	case errors.Is(err, domain.ErrNotFound):
		h.count(topic, "not_found")
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrReconciliation):
		h.logger.Warn("webhook record rejected", "topic", topic, "shop_domain", r.Header.Get(ShopDomainHeader), "error", err)
		h.finish(w, topic, http.StatusBadRequest, "Unprocessable record")
	default:
		h.logger.Error("webhook processing failed", "topic", topic, "shop_domain", r.Header.Get(ShopDomainHeader), "error", err)
		h.finish(w, topic, http.StatusInternalServerError, "Error handling webhook")
	}
}

func (h *WebhookHandler) finish(w http.ResponseWriter, topic string, status int, msg string) {
	h.count(topic, "error")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func (h *WebhookHandler) count(topic, status string) {
	if h.metrics != nil {
		h.metrics.WebhooksTotal.WithLabelValues(topic, status).Inc()
	}
}
