package cart

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusCheckedOut Status = "checked_out"
)

type Item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Cart is the stored record for one context. Items never contain a
// non-positive quantity or a duplicate sku.
type Cart struct {
	ContextID string
	Items     []Item
	Currency  string
	Status    Status
	UpdatedAt time.Time
}

// Store owns the per-context item lists. It does not auto-create carts on
// read; the service supplies the empty-cart default.
type Store interface {
	Get(contextID string) (Cart, bool, error)
	UpsertItems(contextID string, items []Item) error
	RemoveItem(contextID, sku string) (bool, error)
	SetStatus(contextID string, status Status) error
}
