package handler

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/shopmetrics/internal/usecase"
)

// IngestHandler exposes the bulk-pull ingestion triggers.
type IngestHandler struct {
	sync   *usecase.SyncService
	logger *slog.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(sync *usecase.SyncService, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{sync: sync, logger: logger}
}

// SyncProducts handles POST /ingest/products.
func (h *IngestHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	res, err := h.sync.SyncProducts(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("product sync failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to sync products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"msg":     "Products synced successfully",
		"count":   res.Processed,
		"skipped": res.Skipped,
	})
}

// SyncOrders handles POST /ingest/orders.
func (h *IngestHandler) SyncOrders(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	res, err := h.sync.SyncOrders(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("order sync failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to sync orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"msg":     "Orders synced successfully",
		"count":   res.Processed,
		"skipped": res.Skipped,
	})
}

// SyncCustomers handles POST /ingest/customers.
func (h *IngestHandler) SyncCustomers(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	res, err := h.sync.SyncCustomers(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("customer sync failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to sync customers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"msg":     "Customers synced successfully",
		"count":   res.Processed,
		"skipped": res.Skipped,
	})
}
