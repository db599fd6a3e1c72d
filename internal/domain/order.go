package domain

import "time"

// Order statuses. An order is created as paid by the payment confirmation
// path; later statuses come from back-office or shipping updates.
const (
	OrderPaid       = "paid"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ShippingAddress is the address captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItem is a purchased line frozen at payment time.
type OrderItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// Order is written exactly once per OrderNumber, on the first successful
// payment confirmation. UserID is nil for guest checkouts.
type Order struct {
	OrderNumber   string          `json:"orderNumber"`
	UserID        *string         `json:"userId,omitempty"`
	Email         string          `json:"email"`
	Status        string          `json:"status"`
	SubtotalCents int64           `json:"subtotalCents"`
	ShippingCents int64           `json:"shippingCents"`
	DiscountCents int64           `json:"discountCents"`
	TotalCents    int64           `json:"totalCents"`
	ShippingAddr  ShippingAddress `json:"shippingAddress"`
	Items         []OrderItem     `json:"items"`
	CouponCode    *string         `json:"couponCode,omitempty"`
	PaymentRef    *string         `json:"paymentRef,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
