package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/V4T54L/shopmetrics/internal/adapter/api/middleware"
	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// TenantHeader optionally selects one of the admin's tenants. Absent, the
// admin's first tenant is used.
const TenantHeader = "X-Tenant-ID"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// requestScope pulls the authenticated admin id and the optional tenant
// selector off the request. A false return means the response was already
// written.
func requestScope(w http.ResponseWriter, r *http.Request) (adminID, tenantID uuid.UUID, ok bool) {
	adminID, ok = middleware.AdminIDFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	if raw := r.Header.Get(TenantHeader); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeMsg(w, http.StatusBadRequest, "Invalid tenant id")
			return uuid.Nil, uuid.Nil, false
		}
		tenantID = id
	}
	return adminID, tenantID, true
}

// failMsg maps domain errors to the response envelope, hiding internal
// detail behind a generic message.
func failMsg(w http.ResponseWriter, err error, genericMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeMsg(w, http.StatusNotFound, "No tenant found")
	case errors.Is(err, domain.ErrUpstream):
		writeMsg(w, http.StatusBadGateway, genericMsg)
	default:
		writeMsg(w, http.StatusInternalServerError, genericMsg)
	}
}
