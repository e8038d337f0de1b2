// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Item is a single cart line. PriceSnapshot is the unit price the backend
// recorded when the line was created; the backend remains the source of
// truth for current pricing.
type Item struct {
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	PriceSnapshot float64 `json:"price_snapshot"`
}

// Totals summarizes a cart
type Totals struct {
	ItemCount     int     `json:"item_count"`
	TotalQuantity int     `json:"total_quantity"`
	SubTotal      float64 `json:"sub_total"`
}

// Cart is the transient local mirror of the backend cart. It is refreshed
// from the backend after every confirmed mutation and is never authoritative.
type Cart struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Empty returns a well-formed empty cart so callers can always render a
// consistent empty state without nil checks
func Empty() *Cart {
	return &Cart{Items: []Item{}}
}

// fromResponse converts a backend cart envelope into the local mirror
func fromResponse(resp *upstream.CartResponse) *Cart {
	c := &Cart{Items: make([]Item, 0, len(resp.Cart))}
	for _, entry := range resp.Cart {
		c.Items = append(c.Items, Item{
			ProductID:     entry.ProductID,
			Quantity:      entry.Quantity,
			PriceSnapshot: float64(entry.Price),
		})
	}
	c.Totals = calculateTotals(c.Items)
	return c
}

func calculateTotals(items []Item) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.PriceSnapshot * float64(item.Quantity)
	}
	return totals
}
