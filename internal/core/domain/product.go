package domain

// Product is a catalog record as delivered by the storefront API.
type Product struct {
	ID              string   `json:"_id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	DiscountPercent float64  `json:"discountPercent,omitempty"`
	Image           string   `json:"image,omitempty"`
	Images          []string `json:"images,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	Stock           int      `json:"stock,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// DiscountedPrice returns the effective price after the discount, or the
// plain price when no discount applies.
func (p Product) DiscountedPrice() float64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.DiscountPercent/100)
}
