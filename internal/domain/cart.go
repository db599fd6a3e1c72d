package domain

import "time"

// VariantKey identifies a distinct purchasable cart line: the same product in
// a different size or color is a separate line.
type VariantKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CartLine is one variant in a shopper's cart. PriceCents is the unit price
// snapshotted at add time.
type CartLine struct {
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Size       string    `json:"size"`
	Color      string    `json:"color"`
	Quantity   int       `json:"quantity"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// Key returns the variant key for the line.
func (l CartLine) Key() VariantKey {
	return VariantKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// TotalCents is the line total (unit price times quantity).
func (l CartLine) TotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}
