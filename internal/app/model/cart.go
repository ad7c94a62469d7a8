package model

// CartItem is a snapshot of the product and variant taken when the line was
// first added; later catalog changes do not reach it.
type CartItem struct {
	ProductID uint           `json:"product_id"`
	VariantID uint           `json:"variant_id"`
	Product   Product        `json:"product"`
	Variant   ProductVariant `json:"variant"`
	Quantity  int            `json:"quantity"`
}

// Subtotal uses the stored variant price.
func (i CartItem) Subtotal() float64 {
	return i.Variant.Price * float64(i.Quantity)
}
