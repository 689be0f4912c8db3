package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/V4T54L/shopmetrics/internal/usecase"
)

// AdminHandler exposes the store-connect handshake.
type AdminHandler struct {
	connect *usecase.ConnectService
	logger  *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(connect *usecase.ConnectService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{connect: connect, logger: logger}
}

type connectRequest struct {
	ShopDomain  string `json:"shopDomain"`
	AccessToken string `json:"accessToken"`
}

// ConnectStore handles POST /admin/connect.
func (h *AdminHandler) ConnectStore(w http.ResponseWriter, r *http.Request) {
	adminID, _, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShopDomain == "" || req.AccessToken == "" {
		writeMsg(w, http.StatusBadRequest, "shopDomain and accessToken are required")
		return
	}

	tenant, err := h.connect.ConnectStore(r.Context(), adminID, req.ShopDomain, req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			writeMsg(w, http.StatusConflict, "Store already connected")
		case errors.Is(err, domain.ErrUpstream):
			writeMsg(w, http.StatusBadRequest, "Invalid shopDomain or accessToken")
		default:
			h.logger.Error("store connect failed", "admin_id", adminID, "error", err)
			writeMsg(w, http.StatusInternalServerError, "Failed to connect store")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"msg":    "Store connected successfully",
		"tenant": tenant,
	})
}
