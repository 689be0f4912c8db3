package api

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/shopmetrics/internal/adapter/api/handler"
	"github.com/V4T54L/shopmetrics/internal/adapter/api/middleware"
)

// NewRouter creates and configures the main HTTP router.
func NewRouter(
	jwtSecret string,
	logger *slog.Logger,
	ingestHandler *handler.IngestHandler,
	metricsHandler *handler.MetricsHandler,
	webhookHandler *handler.WebhookHandler,
	adminHandler *handler.AdminHandler,
) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.Auth(jwtSecret, logger)

	// Ingestion triggers
	mux.Handle("POST /ingest/products", auth(http.HandlerFunc(ingestHandler.SyncProducts)))
	mux.Handle("POST /ingest/orders", auth(http.HandlerFunc(ingestHandler.SyncOrders)))
	mux.Handle("POST /ingest/customers", auth(http.HandlerFunc(ingestHandler.SyncCustomers)))

	// Dashboard metrics
	mux.Handle("GET /metrics/getOverview", auth(http.HandlerFunc(metricsHandler.GetOverview)))
	mux.Handle("GET /metrics/getTopCustomers", auth(http.HandlerFunc(metricsHandler.GetTopCustomers)))
	mux.Handle("GET /metrics/getRecentOrders", auth(http.HandlerFunc(metricsHandler.GetRecentOrders)))
	mux.Handle("GET /metrics/getFinancialStatus", auth(http.HandlerFunc(metricsHandler.GetFinancialStatus)))
	mux.Handle("GET /metrics/getDailyIncome", auth(http.HandlerFunc(metricsHandler.GetDailyIncome)))
	mux.Handle("GET /metrics/monthlySale", auth(http.HandlerFunc(metricsHandler.MonthlySale)))

	// Store-connect handshake
	mux.Handle("POST /admin/connect", auth(http.HandlerFunc(adminHandler.ConnectStore)))

	// Webhooks: no auth, tenant resolved via shop-domain header
	mux.HandleFunc("POST /webhooks/orders/create", webhookHandler.Order)
	mux.HandleFunc("POST /webhooks/orders/updated", webhookHandler.Order)
	mux.HandleFunc("POST /webhooks/customers/create", webhookHandler.Customer)
	mux.HandleFunc("POST /webhooks/customers/updated", webhookHandler.Customer)
	mux.HandleFunc("POST /webhooks/products/create", webhookHandler.Product)
	mux.HandleFunc("POST /webhooks/products/updated", webhookHandler.Product)
	mux.HandleFunc("POST /webhooks/checkouts/create", webhookHandler.Checkout)
	mux.HandleFunc("POST /webhooks/checkouts/update", webhookHandler.Checkout)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
