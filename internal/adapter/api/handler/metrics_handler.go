package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/V4T54L/shopmetrics/internal/usecase"
)

// MetricsHandler exposes the dashboard aggregate endpoints.
type MetricsHandler struct {
	metrics *usecase.MetricsService
	logger  *slog.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metrics *usecase.MetricsService, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, logger: logger}
}

// GetOverview handles GET /metrics/getOverview.
func (h *MetricsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	result, err := h.metrics.Overview(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("overview failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch overview")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetTopCustomers handles GET /metrics/getTopCustomers?limit=N.
func (h *MetricsHandler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw) // non-numeric falls back to the default
	}

	result, err := h.metrics.TopCustomers(r.Context(), adminID, tenantID, limit)
	if err != nil {
		h.logger.Error("top customers failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch top customers")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetRecentOrders handles GET /metrics/getRecentOrders.
func (h *MetricsHandler) GetRecentOrders(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	result, err := h.metrics.RecentOrders(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("recent orders failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch recent orders")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetFinancialStatus handles GET /metrics/getFinancialStatus.
func (h *MetricsHandler) GetFinancialStatus(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	result, err := h.metrics.FinancialStatus(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("financial status failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch financialStatus")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetDailyIncome handles GET /metrics/getDailyIncome.
func (h *MetricsHandler) GetDailyIncome(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	result, err := h.metrics.DailyIncome(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("daily income failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch daily income")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MonthlySale handles GET /metrics/monthlySale.
func (h *MetricsHandler) MonthlySale(w http.ResponseWriter, r *http.Request) {
	adminID, tenantID, ok := requestScope(w, r)
	if !ok {
		return
	}

	result, err := h.metrics.MonthlySales(r.Context(), adminID, tenantID)
	if err != nil {
		h.logger.Error("monthly sales failed", "admin_id", adminID, "error", err)
		failMsg(w, err, "Failed to fetch monthly sales")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
