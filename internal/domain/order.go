package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is an external order record scoped to a tenant. Identity is the
// composite (ExternalID, TenantID). CreatedAt is the source-of-truth event
// time reported by the platform, not the ingestion time.
type Order struct {
	ExternalID      string    `json:"external_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	TotalPrice      float64   `json:"total_price"`
	FinancialStatus *string   `json:"financial_status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	// CustomerID links to a Customer by external id. Nil when the platform
	// reported no customer. Not enforced against the customers table at
	// write time; linkage is eventual.
	CustomerID *string `json:"customer_id,omitempty"`
}
