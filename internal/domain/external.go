package domain

import (
	"encoding/json"
	"time"
)

// External record shapes as delivered by the upstream platform, before
// normalization. Field names are platform-native snake_case; ids arrive as
// numbers or strings, so json.Number covers both. Optional fields are
// pointers so an absent field can be told apart from an empty one — absence
// must not overwrite stored state on update.

// ExternalShop is the subset of the platform's shop payload used by the
// store-connect handshake.
type ExternalShop struct {
	MyshopifyDomain string `json:"myshopify_domain"`
	Name            string `json:"name"`
}

// ExternalCustomer is a customer payload from bulk sync or a webhook.
type ExternalCustomer struct {
	ID          json.Number `json:"id"`
	Email       *string     `json:"email"`
	FirstName   *string     `json:"first_name"`
	LastName    *string     `json:"last_name"`
	OrdersCount *int64      `json:"orders_count"`
	TotalSpent  *string     `json:"total_spent"` // Decimal delivered as a string
}

// ExternalOrderCustomer is the embedded customer reference on an order.
type ExternalOrderCustomer struct {
	ID json.Number `json:"id"`
}

// ExternalOrder is an order payload from bulk sync or a webhook.
type ExternalOrder struct {
	ID              json.Number            `json:"id"`
	TotalPrice      *string                `json:"total_price"`
	FinancialStatus *string                `json:"financial_status"`
	CreatedAt       *time.Time             `json:"created_at"`
	Customer        *ExternalOrderCustomer `json:"customer"`
}

// ExternalVariant carries the price of one product variant.
type ExternalVariant struct {
	Price string `json:"price"`
}

// ExternalProduct is a product payload from bulk sync or a webhook. The
// price lives on the first variant when present.
type ExternalProduct struct {
	ID       json.Number       `json:"id"`
	Title    *string           `json:"title"`
	Variants []ExternalVariant `json:"variants"`
}
