package domain

import "github.com/google/uuid"

// Product is an external product record scoped to a tenant. Identity is the
// composite (ExternalID, TenantID).
type Product struct {
	ExternalID string    `json:"external_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Title      *string   `json:"title,omitempty"`
	Price      *float64  `json:"price,omitempty"`
}
