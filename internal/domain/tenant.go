package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one connected merchant storefront account, the unit of
// data isolation for everything else in the store.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	AdminID     uuid.UUID `json:"admin_id"`
	ShopDomain  string    `json:"shop_domain"`
	AccessToken string    `json:"-"` // Opaque platform credential, never exposed in API responses
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
