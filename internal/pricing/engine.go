package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// Currency is fixed for the whole catalog.
	Currency = "CAD"

	taxRate = 0.13
)

// UnprocessableError reports an item batch the engine refuses to price:
// a non-positive quantity or a sku absent from the catalog.
type UnprocessableError struct {
	Detail string
}

func (e *UnprocessableError) Error() string { return e.Detail }

type Item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// PricedItem is derived per read, never stored. Money fields are cents.
type PricedItem struct {
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Name      string `json:"name"`
	Subtotal  int64  `json:"subtotal"`
}

type Totals struct {
	Items      int64 `json:"items"`
	Tax        int64 `json:"tax"`
	Fees       int64 `json:"fees"`
	GrandTotal int64 `json:"grandTotal"`
}

type Priced struct {
	Items    []PricedItem
	Totals   Totals
	Currency string
}

type Order struct {
	OrderID     string
	AmountCents int64
	Currency    string
	CreatedAt   time.Time
}

// Engine is a pure function of its input and the static catalog. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

func NewEngine(c *Catalog) *Engine {
	return &Engine{catalog: c}
}

// Price resolves every line against the catalog and computes totals.
// Tax is 13% of the items total, rounded to the nearest cent.
func (e *Engine) Price(items []Item) (Priced, error) {
	priced := make([]PricedItem, 0, len(items))
	var itemsTotal int64

	for _, it := range items {
		if it.Quantity <= 0 {
			return Priced{}, &UnprocessableError{Detail: fmt.Sprintf("invalid quantity %d for sku %s", it.Quantity, it.SKU)}
		}
		cat, ok := e.catalog.Get(it.SKU)
		if !ok {
			return Priced{}, &UnprocessableError{Detail: "unknown sku: " + it.SKU}
		}

		subtotal := cat.PriceCents * int64(it.Quantity)
		if subtotal < 0 || itemsTotal > math.MaxInt64-subtotal {
			return Priced{}, &UnprocessableError{Detail: "total overflow"}
		}
		priced = append(priced, PricedItem{
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: cat.PriceCents,
			Name:      cat.Name,
			Subtotal:  subtotal,
		})
		itemsTotal += subtotal
	}

	tax := int64(math.Round(float64(itemsTotal) * taxRate))
	totals := Totals{
		Items:      itemsTotal,
		Tax:        tax,
		Fees:       0,
		GrandTotal: itemsTotal + tax,
	}

	return Priced{Items: priced, Totals: totals, Currency: Currency}, nil
}

// Checkout synthesizes an order for the given items. Nothing is persisted;
// the order exists only in the returned value.
func (e *Engine) Checkout(items []Item) (Order, error) {
	if len(items) == 0 {
		return Order{}, &UnprocessableError{Detail: "cart is empty"}
	}

	priced, err := e.Price(items)
	if err != nil {
		return Order{}, err
	}

	return Order{
		OrderID:     "ord_" + uuid.NewString(),
		AmountCents: priced.Totals.GrandTotal,
		Currency:    priced.Currency,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
