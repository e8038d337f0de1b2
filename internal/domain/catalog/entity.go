// internal/domain/catalog/entity.go
package catalog

// Product is the presentation-ready product record. Price is the price the
// customer pays; OriginalPrice is the back-computed pre-discount price and is
// nil when the product carries no discount.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Gender          string   `json:"gender"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
	Stock           int      `json:"stock"`
	Sizes           []string `json:"sizes"`
	Image           string   `json:"image"`
	Images          []string `json:"images,omitempty"`
	IsFavorite      bool     `json:"is_favorite,omitempty"`
}

// HasDiscount reports whether the product is sold below its original price
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// InStock reports whether the product can be added to a cart
func (p *Product) InStock() bool {
	return p.Stock > 0
}
