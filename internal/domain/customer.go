package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Customer is an external customer record scoped to a tenant. Identity is
// the composite (ExternalID, TenantID). Optional fields are pointers: nil
// means the value is unknown, both in storage and in incoming patches.
type Customer struct {
	ExternalID  string    `json:"external_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       *string   `json:"email,omitempty"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	OrdersCount *int64    `json:"orders_count,omitempty"`
	// TotalSpent is the platform-reported running total, not derived locally.
	TotalSpent *float64 `json:"total_spent,omitempty"`
}

// DisplayName resolves a human-readable name: first+last, falling back to
// the email address, falling back to "Unknown". Safe on a nil receiver.
func (c *Customer) DisplayName() string {
	if c == nil {
		return "Unknown"
	}
	var parts []string
	if c.FirstName != nil && *c.FirstName != "" {
		parts = append(parts, *c.FirstName)
	}
	if c.LastName != nil && *c.LastName != "" {
		parts = append(parts, *c.LastName)
	}
	if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
		return name
	}
	if c.Email != nil && *c.Email != "" {
		return *c.Email
	}
	return "Unknown"
}
